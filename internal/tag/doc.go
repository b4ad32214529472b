// Package tag implements an interning registry for Tag values.
//
// Two calls that intern the same name return the same *Tag, so tags can be
// compared by pointer identity. Entries are held by a weak reference and
// reclaimed once nothing outside the registry still holds the *Tag,
// mirroring the original system's WeakReference/ReferenceQueue-based
// TagCache without hand-rolled finalization bookkeeping.
package tag
