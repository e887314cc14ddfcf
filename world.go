package depot

import (
	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"go.uber.org/zap"
)

// World owns the fixed runtime tables built from a sealed schema: the entity
// allocator, one column per component type, per-entity signature masks, the
// resource slots, the event channels, the command buffer, and the resolved
// stage orders. All access is single-threaded; the scheduler alone decides
// when commands flush and when event buffers swap.
type World struct {
	schema     *Schema
	alloc      *Allocator
	columns    []column
	masks      []mask.Mask
	resources  []any
	events     []eventChannel
	cmds       *Commands
	stages     []*stageRuntime
	stageIndex map[string]int
	tick       uint64
	running    bool
	log        *zap.Logger
}

// WorldOption configures world construction.
type WorldOption func(*worldSettings)

type worldSettings struct {
	capacity int
	ceiling  int
	logger   *zap.Logger
	hook     CrashHook
}

// WithCapacity fixes the sparse entity bound.
func WithCapacity(n int) WorldOption {
	return func(s *worldSettings) { s.capacity = n }
}

// WithEntityCeiling sets the hard entity count; defaults to the capacity.
func WithEntityCeiling(n int) WorldOption {
	return func(s *worldSettings) { s.ceiling = n }
}

// WithLogger attaches a structured logger; defaults to a nop logger.
func WithLogger(l *zap.Logger) WorldOption {
	return func(s *worldSettings) { s.logger = l }
}

// WithCrashHook registers the capacity recovery callback.
func WithCrashHook(h CrashHook) WorldOption {
	return func(s *worldSettings) { s.hook = h }
}

// NewWorld seals the schema and builds the runtime tables.
func NewWorld(schema *Schema, opts ...WorldOption) (*World, error) {
	if schema == nil {
		return nil, WorldConfigError{Reason: "nil schema"}
	}
	settings := worldSettings{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.capacity <= 0 {
		return nil, WorldConfigError{Reason: "capacity must be positive"}
	}
	if settings.ceiling == 0 {
		settings.ceiling = settings.capacity
	}
	if settings.ceiling < 0 || settings.ceiling > settings.capacity {
		return nil, WorldConfigError{Reason: "ceiling must be within capacity"}
	}
	if settings.logger == nil {
		settings.logger = zap.NewNop()
	}
	schema.seal()

	w := &World{
		schema:     schema,
		alloc:      newAllocator(settings.capacity, settings.ceiling, settings.hook),
		columns:    make([]column, len(schema.components)),
		masks:      make([]mask.Mask, settings.capacity+1),
		resources:  make([]any, len(schema.resources)),
		events:     make([]eventChannel, len(schema.events)),
		stageIndex: make(map[string]int, len(schema.stages)),
		tick:       1,
		log:        settings.logger,
	}
	for i, comp := range schema.components {
		w.columns[i] = comp.newColumn(settings.capacity)
	}
	for i, entry := range schema.resources {
		if entry.init != nil {
			w.resources[i] = entry.init()
		}
	}
	for i, build := range schema.events {
		w.events[i] = build()
	}
	for i, def := range schema.stages {
		w.stageIndex[def.name] = i
		w.stages = append(w.stages, resolveStage(def))
	}
	w.cmds = newCommands(w)
	return w, nil
}

// aliveEntities returns every live entity in ascending index order. It backs
// the identity query, which has no column to drive iteration.
func (w *World) aliveEntities() []Entity {
	out := make([]Entity, 0, w.alloc.count)
	for id := uint32(1); id < w.alloc.next; id++ {
		if w.alloc.alive[id] {
			out = append(out, Entity{id: id, gen: w.alloc.gens[id]})
		}
	}
	return out
}

func (w *World) column(id TypeID) column { return w.columns[id] }

// Allocator returns the shared entity allocator.
func (w *World) Allocator() *Allocator { return w.alloc }

// Commands returns the world's command buffer for host-side enqueueing.
func (w *World) Commands() *Commands { return w.cmds }

// Tick returns the world's current change tick.
func (w *World) Tick() uint64 { return w.tick }

// SetCrashHook registers or replaces the capacity recovery callback.
func (w *World) SetCrashHook(h CrashHook) { w.alloc.hook = h }

// Spawn allocates an entity carrying the given component values. It fails
// only at the entity ceiling (recoverable through the crash hook) or while a
// stage runs.
func (w *World) Spawn(values ...ComponentValue) (Entity, error) {
	if w.running {
		return Entity{}, LockedWorldError{}
	}
	e, err := w.alloc.spawn()
	if err != nil {
		w.log.Warn("spawn rejected", zap.Int("ceiling", w.alloc.ceiling), zap.Error(err))
		return Entity{}, err
	}
	for _, cv := range values {
		if err := w.applyValue(e, cv); err != nil {
			return Entity{}, err
		}
	}
	return e, nil
}

// SpawnBundle allocates an entity carrying a bound bundle.
func (w *World) SpawnBundle(bv BundleValue) (Entity, error) {
	return w.Spawn(bv.values...)
}

// AttachBundle applies every value of a bound bundle to a live entity.
func (w *World) AttachBundle(e Entity, bv BundleValue) error {
	if w.running {
		return LockedWorldError{}
	}
	if !w.alloc.isAlive(e) {
		return DeadEntityError{Entity: e}
	}
	for _, cv := range bv.values {
		if err := w.applyValue(e, cv); err != nil {
			return err
		}
	}
	return nil
}

// Despawn removes the entity and all its component rows, recycling the
// index. A no-op on an already-dead entity.
func (w *World) Despawn(e Entity) error {
	if w.running {
		return LockedWorldError{}
	}
	w.despawn(e)
	return nil
}

// Has reports whether the live entity carries the component.
func (w *World) Has(c Component, e Entity) bool {
	if !w.alloc.isAlive(e) {
		return false
	}
	_, ok := w.column(c.TypeID()).rowOf(e.id)
	return ok
}

func (w *World) applyValue(e Entity, cv ComponentValue) error {
	if err := w.column(cv.comp.TypeID()).attachErased(e, cv.value, w.tick); err != nil {
		return err
	}
	w.masks[e.id].Mark(uint32(cv.comp.TypeID()))
	return nil
}

func (w *World) despawn(e Entity) {
	if !w.alloc.isAlive(e) {
		return
	}
	for _, col := range w.columns {
		col.detach(e, w.tick)
	}
	w.masks[e.id] = mask.Mask{}
	w.alloc.despawn(e)
}

// Entities resolves q immediately and returns the matched set.
func (w *World) Entities(q *Query) []Entity {
	return iter_util.Collect(newCursor(q, w, 0).Entities())
}

// SwapEvents performs the per-frame buffer swap for every event channel.
// The host chooses the fixed point: between frames, or from a system
// anchored at a label when same-frame delivery across that label is wanted.
func (w *World) SwapEvents() {
	for _, ch := range w.events {
		ch.swap()
	}
}

// FlushCommands applies the pending command batch outside a stage run. Used
// by hosts that chose to flush after a stage error.
func (w *World) FlushCommands() error {
	if w.running {
		return LockedWorldError{}
	}
	return w.flushCommands()
}

// DiscardCommands drops the pending command batch without applying it.
func (w *World) DiscardCommands() {
	w.cmds.reset()
}

// Release frees all column storage, event buffers, and the command queue.
// The world must not be used afterwards.
func (w *World) Release() {
	for _, col := range w.columns {
		col.release()
	}
	for _, ch := range w.events {
		ch.release()
	}
	w.cmds.reset()
	w.columns = nil
	w.events = nil
	w.masks = nil
	w.resources = nil
}

func entityField(e Entity) zap.Field {
	return zap.Stringer("entity", e)
}
