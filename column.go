package depot

// column is the erased face of per-type component storage. One column exists
// per registered component type; rows are densely packed and deletion is
// swap-remove, so row indices must not be cached across mutations.
type column interface {
	typeID() TypeID
	length() int
	denseEntities() []Entity
	rowOf(id uint32) (int, bool)
	attachErased(e Entity, v any, tick uint64) error
	detach(e Entity, tick uint64) bool
	attachTick(row int) uint64
	removedSince(tick uint64) []Entity
	pruneRemoved(tick uint64)
	release()
}

type removal struct {
	ent  Entity
	tick uint64
}

var _ column = &tableColumn[int]{}

// tableColumn is the concrete storage for one component type: a dense value
// array, a parallel dense entity list, per-row attach ticks, and a sparse
// id-to-row index bounded by the world capacity. Zero-width element types
// cost nothing per row, which covers marker components without a special
// column kind.
type tableColumn[T any] struct {
	id      TypeID
	dense   []T
	ents    []Entity
	ticks   []uint64
	sparse  []int32
	removed []removal
}

func newTableColumn[T any](id TypeID, capacity int) *tableColumn[T] {
	sparse := make([]int32, capacity+1)
	for i := range sparse {
		sparse[i] = -1
	}
	return &tableColumn[T]{id: id, sparse: sparse}
}

func (c *tableColumn[T]) typeID() TypeID          { return c.id }
func (c *tableColumn[T]) length() int             { return len(c.dense) }
func (c *tableColumn[T]) denseEntities() []Entity { return c.ents }

func (c *tableColumn[T]) rowOf(id uint32) (int, bool) {
	if int(id) >= len(c.sparse) {
		return 0, false
	}
	row := c.sparse[id]
	if row < 0 {
		return 0, false
	}
	return int(row), true
}

// attach inserts a row for e or overwrites the existing one. Overwrites keep
// the original attach tick: membership did not change.
func (c *tableColumn[T]) attach(e Entity, v T, tick uint64) {
	if row, ok := c.rowOf(e.id); ok {
		c.dense[row] = v
		c.ents[row] = e
		return
	}
	c.sparse[e.id] = int32(len(c.dense))
	c.dense = append(c.dense, v)
	c.ents = append(c.ents, e)
	c.ticks = append(c.ticks, tick)
}

func (c *tableColumn[T]) attachErased(e Entity, v any, tick uint64) error {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return ComponentValueTypeError{Component: typeName(zero)}
	}
	c.attach(e, tv, tick)
	return nil
}

// detach swap-removes the row for e, relocating the sparse entry of whichever
// entity occupied the last row. Reports whether a row was removed.
func (c *tableColumn[T]) detach(e Entity, tick uint64) bool {
	row, ok := c.rowOf(e.id)
	if !ok {
		return false
	}
	last := len(c.dense) - 1
	moved := c.ents[last]
	c.dense[row] = c.dense[last]
	c.ents[row] = moved
	c.ticks[row] = c.ticks[last]
	c.sparse[moved.id] = int32(row)

	var zero T
	c.dense[last] = zero
	c.dense = c.dense[:last]
	c.ents = c.ents[:last]
	c.ticks = c.ticks[:last]
	c.sparse[e.id] = -1
	c.removed = append(c.removed, removal{ent: e, tick: tick})
	return true
}

func (c *tableColumn[T]) get(id uint32) (*T, bool) {
	row, ok := c.rowOf(id)
	if !ok {
		return nil, false
	}
	return &c.dense[row], true
}

func (c *tableColumn[T]) attachTick(row int) uint64 { return c.ticks[row] }

func (c *tableColumn[T]) removedSince(tick uint64) []Entity {
	var out []Entity
	for _, r := range c.removed {
		if r.tick > tick {
			out = append(out, r.ent)
		}
	}
	return out
}

// pruneRemoved drops removal records no stage can still observe.
func (c *tableColumn[T]) pruneRemoved(tick uint64) {
	kept := c.removed[:0]
	for _, r := range c.removed {
		if r.tick > tick {
			kept = append(kept, r)
		}
	}
	c.removed = kept
}

func (c *tableColumn[T]) release() {
	c.dense = nil
	c.ents = nil
	c.ticks = nil
	c.sparse = nil
	c.removed = nil
}
