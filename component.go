package depot

import "fmt"

var _ Component = ComponentType[struct{}]{}

// ComponentType is the typed handle for a registered component type. It
// provides direct access on a world and cursor-based access during queries.
type ComponentType[T any] struct {
	id TypeID
}

func (c ComponentType[T]) TypeID() TypeID { return c.id }

func (c ComponentType[T]) name() string {
	var zero T
	return typeName(zero)
}

func (c ComponentType[T]) newColumn(capacity int) column {
	return newTableColumn[T](c.id, capacity)
}

func (c ComponentType[T]) wrap(v any) (ComponentValue, error) {
	tv, ok := v.(T)
	if !ok {
		return ComponentValue{}, ComponentValueTypeError{Component: c.name()}
	}
	return ComponentValue{comp: c, value: tv}, nil
}

// With builds a ComponentValue for spawning or attaching.
func (c ComponentType[T]) With(v T) ComponentValue {
	return ComponentValue{comp: c, value: v}
}

// Attach inserts or overwrites the component on a live entity. Fails with
// LockedWorldError while a stage runs; use Commands instead.
func (c ComponentType[T]) Attach(w *World, e Entity, v T) error {
	if w.running {
		return LockedWorldError{}
	}
	if !w.alloc.isAlive(e) {
		return DeadEntityError{Entity: e}
	}
	w.column(c.id).(*tableColumn[T]).attach(e, v, w.tick)
	w.masks[e.id].Mark(uint32(c.id))
	return nil
}

// Detach swap-removes the component from e. A no-op on entities lacking it.
func (c ComponentType[T]) Detach(w *World, e Entity) error {
	if w.running {
		return LockedWorldError{}
	}
	if !w.alloc.isAlive(e) {
		return nil
	}
	if w.column(c.id).detach(e, w.tick) {
		w.masks[e.id].Unmark(uint32(c.id))
	}
	return nil
}

// Get returns a handle to e's component value, O(1). The pointer is
// invalidated by the next structural mutation of the column.
func (c ComponentType[T]) Get(w *World, e Entity) (*T, bool) {
	if !w.alloc.isAlive(e) {
		return nil, false
	}
	return w.column(c.id).(*tableColumn[T]).get(e.id)
}

// Snapshot returns a copy of e's component value.
func (c ComponentType[T]) Snapshot(w *World, e Entity) (T, bool) {
	p, ok := c.Get(w, e)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

// Has reports whether the live entity e carries the component.
func (c ComponentType[T]) Has(w *World, e Entity) bool {
	if !w.alloc.isAlive(e) {
		return false
	}
	_, ok := w.column(c.id).rowOf(e.id)
	return ok
}

// GetFromCursor retrieves the component value for the entity at the cursor
// position. The component must be part of the cursor's required tuple.
func (c ComponentType[T]) GetFromCursor(cur *Cursor) *T {
	for i, rc := range cur.query.required {
		if rc.TypeID() == c.id {
			row := cur.rows[i][cur.pos]
			return &cur.w.column(c.id).(*tableColumn[T]).dense[row]
		}
	}
	panic(fmt.Sprintf("depot: component %s is not part of the cursor's query", c.name()))
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
