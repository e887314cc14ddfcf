// Profiling harness for the query engine:
// go build ./profile/query
// go tool pprof -http=":8000" ./query cpu.pprof

package main

import (
	"log"

	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

func main() {
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(100, 1000, 5000)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		schema := depot.Factory.NewSchema()
		pos := depot.RegisterComponent[position](schema)
		vel := depot.RegisterComponent[velocity](schema)
		if err := schema.AddStage("update"); err != nil {
			log.Fatal(err)
		}
		if err := schema.AddSystem("update", func(ctx *depot.Ctx) error {
			cur := ctx.Cursor(depot.Factory.NewQuery(pos, vel))
			for cur.Next() {
				p := pos.GetFromCursor(cur)
				v := vel.GetFromCursor(cur)
				p.X += v.X
				p.Y += v.Y
			}
			return nil
		}); err != nil {
			log.Fatal(err)
		}

		world, err := depot.NewWorld(schema, depot.WithCapacity(numEntities))
		if err != nil {
			log.Fatal(err)
		}
		for i := 0; i < numEntities; i++ {
			if _, err := world.Spawn(pos.With(position{}), vel.With(velocity{X: 1, Y: 2})); err != nil {
				log.Fatal(err)
			}
		}
		for range iters {
			if err := world.RunStage("update"); err != nil {
				log.Fatal(err)
			}
			world.SwapEvents()
		}
		world.Release()
	}
}
