package tag

import (
	"runtime"
	"sync"
	"weak"
)

// Registry interns Tag values by name. A Registry is a handle, not a
// package-level singleton, so independent schedulers (and tests) get
// independent tag namespaces.
type Registry struct {
	mu   sync.Mutex
	tags map[string]weak.Pointer[Tag]
}

// NewRegistry returns an empty tag registry.
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]weak.Pointer[Tag])}
}

// Intern returns the Tag for name, creating it on first use. Subsequent
// calls with the same name return the same *Tag as long as some caller
// still holds a strong reference to it.
func (r *Registry) Intern(name string) *Tag {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wp, ok := r.tags[name]; ok {
		if t := wp.Value(); t != nil {
			return t
		}
		delete(r.tags, name)
	}

	t := &Tag{name: name}
	r.tags[name] = weak.Make(t)
	runtime.AddCleanup(t, r.evict, name)
	return t
}

// evict drops a registry entry once its Tag has been garbage collected. It
// only removes the entry if it's still the same (now-dead) weak pointer, so
// a fresh Intern racing with a GC cycle never loses its entry.
func (r *Registry) evict(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.tags[name]; ok && wp.Value() == nil {
		delete(r.tags, name)
	}
}

// Len reports the number of live entries currently tracked. Intended for
// tests; under concurrent Intern/GC activity the count is only a snapshot.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tags)
}
