package depot

// ResourceType is the typed handle for a registered resource: exactly one
// instance per type, alive for the world's lifetime, not entity-associated.
type ResourceType[T any] struct {
	id int
}

// Get returns the mutable in-place handle for the resource, or false if the
// slot was registered without a default and never set.
func (r ResourceType[T]) Get(w *World) (*T, bool) {
	slot := w.resources[r.id]
	if slot == nil {
		return nil, false
	}
	return slot.(*T), true
}

// Snapshot returns a read-only copy of the resource value.
func (r ResourceType[T]) Snapshot(w *World) (T, bool) {
	p, ok := r.Get(w)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

// Set stores v in the resource slot, initializing it if needed. Resources
// are sanctioned shared state for systems, so Set works mid-stage.
func (r ResourceType[T]) Set(w *World, v T) {
	if slot := w.resources[r.id]; slot != nil {
		*slot.(*T) = v
		return
	}
	w.resources[r.id] = &v
}
