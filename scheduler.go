package depot

import "go.uber.org/zap"

// stageRuntime is a stage's resolved run order plus the tick recorded at its
// previous completion, which anchors Added/Removed filters for its systems.
type stageRuntime struct {
	name     string
	order    []SystemFunc
	lastTick uint64
}

// resolveStage linearizes a stage: for each label in registration position,
// splice its before bucket, then the anchor's during bucket, then its after
// bucket. Registration order breaks ties within a bucket, so the result is a
// stable sort rather than a general topological one; constraints are only
// relative to a single named label and cycles cannot be expressed.
func resolveStage(def *stageDef) *stageRuntime {
	rt := &stageRuntime{name: def.name}
	for _, label := range def.labels {
		for _, offset := range [...]systemOffset{offsetBefore, offsetDuring, offsetAfter} {
			for _, sd := range def.systems {
				if sd.label == label && sd.offset == offset {
					rt.order = append(rt.order, sd.fn)
				}
			}
		}
	}
	return rt
}

// Ctx is a system's per-invocation view of the world. References obtained
// through it must not outlive the call.
type Ctx struct {
	world *World
	stage *stageRuntime
}

// World exposes the world for resource, event, and query access.
func (c *Ctx) World() *World { return c.world }

// Commands returns the stage's command buffer for deferred structural
// mutation.
func (c *Ctx) Commands() *Commands { return c.world.cmds }

// Cursor evaluates q with Added/Removed anchored to this stage's previous
// completion.
func (c *Ctx) Cursor(q *Query) *Cursor {
	return newCursor(q, c.world, c.stage.lastTick)
}

// Allocator exposes the shared entity allocator for liveness checks.
func (c *Ctx) Allocator() *Allocator { return c.world.alloc }

// Stage returns the name of the running stage.
func (c *Ctx) Stage() string { return c.stage.name }

// Tick returns the world's current change tick.
func (c *Ctx) Tick() uint64 { return c.world.tick }

// RunStage invokes the stage's systems in resolved order. An error from a
// system aborts the remainder of the stage and propagates as a StageError;
// queued commands are left pending for the caller to flush or discard. On
// success the stage's change window closes, the tick advances, and the
// command buffer flushes under the new tick, so the stage's next run reports
// its own flush through Added/Removed.
func (w *World) RunStage(name string) error {
	idx, ok := w.stageIndex[name]
	if !ok {
		return UnknownStageError{Stage: name}
	}
	if w.running {
		return LockedWorldError{}
	}
	rt := w.stages[idx]

	w.running = true
	for i, fn := range rt.order {
		ctx := Ctx{world: w, stage: rt}
		if err := fn(&ctx); err != nil {
			w.running = false
			w.log.Debug("stage aborted",
				zap.String("stage", name),
				zap.Int("system", i),
				zap.Error(err))
			return StageError{Stage: name, System: i, Err: err}
		}
	}
	w.running = false

	// Close this stage's change window before flushing: the flush is
	// stamped with the advanced tick, so the stage's next run reports the
	// mutations its own commands made.
	rt.lastTick = w.tick
	w.tick++
	queued := w.cmds.Len()
	if err := w.flushCommands(); err != nil {
		return err
	}
	w.pruneChangeLogs()
	w.log.Debug("stage complete",
		zap.String("stage", name),
		zap.Int("systems", len(rt.order)),
		zap.Int("commands", queued))
	return nil
}

// RunStageList runs stages in the given order, stopping at the first error.
func (w *World) RunStageList(names ...string) error {
	for _, name := range names {
		if err := w.RunStage(name); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) pruneChangeLogs() {
	if len(w.stages) == 0 {
		return
	}
	min := w.stages[0].lastTick
	for _, rt := range w.stages[1:] {
		if rt.lastTick < min {
			min = rt.lastTick
		}
	}
	for _, col := range w.columns {
		col.pruneRemoved(min)
	}
}
