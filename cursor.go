package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// Cursor iterates the entities matching a query. The matching row set is
// resolved once, at first advance, and translated into per-column row
// indices up front: element i of every required column refers to the same
// entity. Iteration order follows the first required column's dense order at
// evaluation time and is not stable across mutation.
//
// Cursors are read-only with respect to structural shape; attach/detach
// during iteration must go through Commands and become visible only on the
// next evaluation.
type Cursor struct {
	w     *World
	query *Query
	since uint64

	matched []Entity
	rows    [][]int32
	pos     int

	initialized bool
}

func newCursor(q *Query, w *World, since uint64) *Cursor {
	return &Cursor{w: w, query: q, since: since, pos: -1}
}

// Next advances the cursor. It returns false when the matched set is
// exhausted.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	c.pos++
	return c.pos < len(c.matched)
}

// Entity returns the entity at the cursor position.
func (c *Cursor) Entity() Entity {
	return c.matched[c.pos]
}

// TotalMatched returns the size of the matched set.
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.initialize()
	}
	return len(c.matched)
}

// Entities yields the matched entities in iteration order.
func (c *Cursor) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if !c.initialized {
			c.initialize()
		}
		for _, e := range c.matched {
			if !yield(e) {
				return
			}
		}
	}
}

// Reset discards the resolved row set; the next advance re-evaluates.
func (c *Cursor) Reset() {
	c.matched = nil
	c.rows = nil
	c.pos = -1
	c.initialized = false
}

func (c *Cursor) initialize() {
	c.initialized = true
	q := c.query

	var reqMask, exclMask mask.Mask
	for _, comp := range q.required {
		reqMask.Mark(uint32(comp.TypeID()))
	}
	for _, comp := range q.with {
		reqMask.Mark(uint32(comp.TypeID()))
	}
	for _, comp := range q.added {
		reqMask.Mark(uint32(comp.TypeID()))
	}
	for _, comp := range q.without {
		exclMask.Mark(uint32(comp.TypeID()))
	}

	removedSets := make([]map[uint32]struct{}, len(q.removed))
	for i, comp := range q.removed {
		set := make(map[uint32]struct{})
		for _, e := range c.w.column(comp.TypeID()).removedSince(c.since) {
			if c.w.alloc.isAlive(e) {
				set[e.id] = struct{}{}
			}
		}
		removedSets[i] = set
	}

	// ContainsNone reports false for an empty argument mask, so the
	// exclusion test only applies when something is actually excluded.
	excluding := !exclMask.IsEmpty()

	for _, e := range c.candidates() {
		m := c.w.masks[e.id]
		if !m.ContainsAll(reqMask) {
			continue
		}
		if excluding && !m.ContainsNone(exclMask) {
			continue
		}
		ok := true
		for _, comp := range q.added {
			col := c.w.column(comp.TypeID())
			row, has := col.rowOf(e.id)
			if !has || col.attachTick(row) <= c.since {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for _, set := range removedSets {
			if _, in := set[e.id]; !in {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		c.matched = append(c.matched, e)
	}

	c.rows = make([][]int32, len(q.required))
	for i, comp := range q.required {
		col := c.w.column(comp.TypeID())
		rows := make([]int32, len(c.matched))
		for j, e := range c.matched {
			row, _ := col.rowOf(e.id)
			rows[j] = int32(row)
		}
		c.rows[i] = rows
	}
}

// candidates picks the cheapest source set to test: the first required
// column's dense order when one exists, falling back to a membership filter
// column, the removal log, and finally every live entity.
func (c *Cursor) candidates() []Entity {
	q := c.query
	if len(q.required) > 0 {
		return c.w.column(q.required[0].TypeID()).denseEntities()
	}
	if len(q.with) > 0 {
		return c.w.column(q.with[0].TypeID()).denseEntities()
	}
	if len(q.removed) > 0 {
		seen := make(map[uint32]struct{})
		var out []Entity
		for _, e := range c.w.column(q.removed[0].TypeID()).removedSince(c.since) {
			if _, dup := seen[e.id]; dup || !c.w.alloc.isAlive(e) {
				continue
			}
			seen[e.id] = struct{}{}
			out = append(out, e)
		}
		return out
	}
	return c.w.aliveEntities()
}
