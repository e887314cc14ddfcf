package depot

// Commands records structural intents during a stage and applies them when
// the stage completes. The flush order is fixed: spawns allocate identities
// and apply their values first, then attaches to existing identities, then
// detaches and despawns. Within each phase, recorded order is preserved.
type Commands struct {
	w        *World
	spawns   []spawnCommand
	attaches []attachCommand
	detaches []detachCommand
	despawns []Entity
}

type spawnCommand struct {
	values []ComponentValue
}

type attachCommand struct {
	entity Entity
	value  ComponentValue
}

type detachCommand struct {
	entity Entity
	comp   Component
}

func newCommands(w *World) *Commands {
	return &Commands{w: w}
}

// Spawn queues the creation of an entity carrying the given values. The
// identity is allocated at flush time.
func (c *Commands) Spawn(values ...ComponentValue) {
	c.spawns = append(c.spawns, spawnCommand{values: values})
}

// SpawnBundle queues the creation of an entity carrying a bound bundle.
func (c *Commands) SpawnBundle(bv BundleValue) {
	c.spawns = append(c.spawns, spawnCommand{values: bv.values})
}

// Attach queues a component insert/overwrite on an existing entity.
func (c *Commands) Attach(e Entity, v ComponentValue) {
	c.attaches = append(c.attaches, attachCommand{entity: e, value: v})
}

// AttachBundle queues every value of a bound bundle onto an existing entity.
func (c *Commands) AttachBundle(e Entity, bv BundleValue) {
	for _, cv := range bv.values {
		c.Attach(e, cv)
	}
}

// Detach queues a component removal.
func (c *Commands) Detach(e Entity, comp Component) {
	c.detaches = append(c.detaches, detachCommand{entity: e, comp: comp})
}

// Despawn queues an entity removal. Idempotent at flush time.
func (c *Commands) Despawn(e Entity) {
	c.despawns = append(c.despawns, e)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.attaches) + len(c.detaches) + len(c.despawns)
}

func (c *Commands) reset() {
	c.spawns = c.spawns[:0]
	c.attaches = c.attaches[:0]
	c.detaches = c.detaches[:0]
	c.despawns = c.despawns[:0]
}

// flushCommands applies the queued batch. If the entity ceiling is hit
// partway, already-applied commands stay applied and the failure surfaces as
// a FlushError; the remaining batch is dropped, never silently retried.
func (w *World) flushCommands() error {
	q := w.cmds
	defer q.reset()
	applied := 0

	for _, sp := range q.spawns {
		e, err := w.alloc.spawn()
		if err != nil {
			return FlushError{Applied: applied, Err: err}
		}
		for _, cv := range sp.values {
			if err := w.applyValue(e, cv); err != nil {
				return FlushError{Applied: applied, Err: err}
			}
		}
		applied++
	}

	for _, at := range q.attaches {
		if !w.alloc.isAlive(at.entity) {
			w.log.Debug("dropping attach for dead entity", entityField(at.entity))
			continue
		}
		if err := w.applyValue(at.entity, at.value); err != nil {
			return FlushError{Applied: applied, Err: err}
		}
		applied++
	}

	for _, dt := range q.detaches {
		if !w.alloc.isAlive(dt.entity) {
			continue
		}
		if w.column(dt.comp.TypeID()).detach(dt.entity, w.tick) {
			w.masks[dt.entity.id].Unmark(uint32(dt.comp.TypeID()))
		}
		applied++
	}

	for _, e := range q.despawns {
		w.despawn(e)
		applied++
	}
	return nil
}
