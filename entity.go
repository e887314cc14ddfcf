package depot

import "fmt"

// Entity is an opaque identity grouping zero or more components. The zero
// Entity is never alive. A generation stamp distinguishes the current
// incarnation of a recycled index from stale handles.
type Entity struct {
	id  uint32
	gen uint32
}

// ID returns the entity's index. Indices start at 1 and are recycled after
// despawn.
func (e Entity) ID() uint32 { return e.id }

// Generation returns the incarnation counter for the entity's index.
func (e Entity) Generation() uint32 { return e.gen }

func (e Entity) String() string {
	return fmt.Sprintf("e%d.%d", e.id, e.gen)
}

// Allocator issues and recycles entity identities and tracks liveness.
// Systems may inspect it through their Ctx; spawning and despawning flow
// through the world or the command buffer.
type Allocator struct {
	gens     []uint32
	alive    []bool
	free     []uint32
	next     uint32
	count    int
	capacity int
	ceiling  int
	hook     CrashHook
}

func newAllocator(capacity, ceiling int, hook CrashHook) *Allocator {
	return &Allocator{
		gens:     make([]uint32, capacity+1),
		alive:    make([]bool, capacity+1),
		next:     1,
		capacity: capacity,
		ceiling:  ceiling,
		hook:     hook,
	}
}

func (a *Allocator) spawn() (Entity, error) {
	if a.count >= a.ceiling {
		return Entity{}, a.ceilingHit()
	}
	var id uint32
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = a.next
		a.next++
	}
	a.gens[id]++
	a.alive[id] = true
	a.count++
	return Entity{id: id, gen: a.gens[id]}, nil
}

func (a *Allocator) despawn(e Entity) {
	if !a.isAlive(e) {
		return
	}
	a.alive[e.id] = false
	a.free = append(a.free, e.id)
	a.count--
}

func (a *Allocator) isAlive(e Entity) bool {
	return e.id > 0 && int(e.id) < len(a.alive) && a.alive[e.id] && a.gens[e.id] == e.gen
}

func (a *Allocator) ceilingHit() error {
	status := HookFatal
	if a.hook != nil {
		status = a.hook(ReasonEntityCeiling)
	}
	return CeilingError{Ceiling: a.ceiling, Recovered: status == HookRecover}
}

// IsAlive reports whether e refers to a live entity. Stale handles from a
// recycled index report false.
func (a *Allocator) IsAlive(e Entity) bool { return a.isAlive(e) }

// Count returns the number of live entities.
func (a *Allocator) Count() int { return a.count }

// Capacity returns the fixed sparse entity bound.
func (a *Allocator) Capacity() int { return a.capacity }

// Ceiling returns the configured hard entity count.
func (a *Allocator) Ceiling() int { return a.ceiling }
