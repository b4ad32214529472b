package graph

import "fmt"

// CyclicError is returned by TopoSort when the graph (or the requested
// subgraph) contains a cycle. It names one vertex that is still part of an
// unresolved cycle, mirroring the original system's CyclicDataException.
type CyclicError[T any] struct {
	Vertex T
}

func (e *CyclicError[T]) Error() string {
	return fmt.Sprintf("graph: cyclic dependency detected at vertex %v", e.Vertex)
}
