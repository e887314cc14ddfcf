/*
Package depot provides a staged Entity-Component-System (ECS) runtime for
real-time simulations.

Depot stores components column-wise: one densely packed array per component
type plus a sparse entity index, so iteration over a single type is
cache-friendly and removal is O(1) via swap-remove. User logic runs as
systems grouped into stages; within a stage, systems are ordered relative to
named labels. Structural changes made while a stage runs are recorded in a
command buffer and applied when the stage completes.

Core Concepts:

  - Entity: A unique identifier (index + generation) representing a simulation object.
  - Component: A data value attached to entities, stored in a per-type column.
  - Resource: A singleton value of a registered type, not tied to any entity.
  - System: A function invoked once per stage run.
  - Stage / Label: Ordered buckets of systems with before/during/after anchors.
  - Event: A value delivered through a per-type double-buffered channel,
    swapped once per frame.

Basic Usage:

	// Build a schema
	schema := depot.Factory.NewSchema()
	position := depot.RegisterComponent[Position](schema)
	velocity := depot.RegisterComponent[Velocity](schema)
	schema.AddStage("update")
	schema.AddSystem("update", func(ctx *depot.Ctx) error {
		cur := ctx.Cursor(depot.Factory.NewQuery(position, velocity))
		for cur.Next() {
			pos := position.GetFromCursor(cur)
			vel := velocity.GetFromCursor(cur)
			pos.X += vel.X
			pos.Y += vel.Y
		}
		return nil
	})

	// Construct the world and drive it
	world, _ := depot.NewWorld(schema)
	world.Spawn(position.With(Position{}), velocity.With(Velocity{X: 1}))
	world.RunStage("update")
	world.SwapEvents() // once per frame

Systems never run concurrently. Each runs to completion before the scheduler
advances, so no locking is required; systems observe committed state and
enqueue intents through ctx.Commands().
*/
package depot
