// Package graph implements a generic, concurrency-safe directed acyclic
// graph used by the scheduler to track dependencies between tasks.
//
// A Graph[T] knows nothing about tasks, actions, or outcomes — it only
// tracks vertices of type T and the before/after edges between them. The
// scheduler instantiates Graph[*task.Task] and layers execution semantics
// on top.
package graph
