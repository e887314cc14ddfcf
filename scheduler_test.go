package depot

import (
	"errors"
	"testing"
)

func recordingSystem(trace *[]string, name string) SystemFunc {
	return func(ctx *Ctx) error {
		*trace = append(*trace, name)
		return nil
	}
}

func TestLabelOrdering(t *testing.T) {
	// Registration order is deliberately scrambled; label anchors alone
	// decide the run order.
	tests := []struct {
		name     string
		register func(s *Schema, trace *[]string)
		want     []string
	}{
		{
			name: "Anchors around one label",
			register: func(s *Schema, trace *[]string) {
				s.AddStage("update", "physics")
				s.AddSystem("update", recordingSystem(trace, "resolve"), After("physics"))
				s.AddSystem("update", recordingSystem(trace, "integrate"), During("physics"))
				s.AddSystem("update", recordingSystem(trace, "input"), Before("physics"))
			},
			want: []string{"input", "integrate", "resolve"},
		},
		{
			name: "Registration order breaks ties",
			register: func(s *Schema, trace *[]string) {
				s.AddStage("update", "physics")
				s.AddSystem("update", recordingSystem(trace, "a"), During("physics"))
				s.AddSystem("update", recordingSystem(trace, "b"), During("physics"))
				s.AddSystem("update", recordingSystem(trace, "c"), Before("physics"))
				s.AddSystem("update", recordingSystem(trace, "d"), Before("physics"))
			},
			want: []string{"c", "d", "a", "b"},
		},
		{
			name: "Labels run in declaration order",
			register: func(s *Schema, trace *[]string) {
				s.AddStage("update", "x", "y", "z")
				s.AddSystem("update", recordingSystem(trace, "z1"), During("z"))
				s.AddSystem("update", recordingSystem(trace, "y1"), During("y"))
				s.AddSystem("update", recordingSystem(trace, "x1"), During("x"))
				s.AddSystem("update", recordingSystem(trace, "afterX"), After("x"))
			},
			want: []string{"x1", "afterX", "y1", "z1"},
		},
		{
			name: "Default placement precedes labeled buckets",
			register: func(s *Schema, trace *[]string) {
				s.AddStage("update", "physics")
				s.AddSystem("update", recordingSystem(trace, "labeled"), During("physics"))
				s.AddSystem("update", recordingSystem(trace, "plain"))
			},
			want: []string{"plain", "labeled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Factory.NewSchema()
			var trace []string
			tt.register(schema, &trace)
			w, err := NewWorld(schema)
			if err != nil {
				t.Fatalf("NewWorld failed: %v", err)
			}
			if err := w.RunStage("update"); err != nil {
				t.Fatalf("RunStage failed: %v", err)
			}
			if len(trace) != len(tt.want) {
				t.Fatalf("trace = %v, want %v", trace, tt.want)
			}
			for i := range tt.want {
				if trace[i] != tt.want[i] {
					t.Errorf("trace[%d] = %q, want %q (full trace %v)", i, trace[i], tt.want[i], trace)
				}
			}
		})
	}
}

func TestAddSystemRejectsUnknownAnchor(t *testing.T) {
	schema := Factory.NewSchema()
	schema.AddStage("update", "physics")

	err := schema.AddSystem("update", recordingSystem(nil, "x"), During("render"))
	var ule UnknownLabelError
	if !errors.As(err, &ule) {
		t.Fatalf("err = %v, want UnknownLabelError", err)
	}
	if ule.Label != "render" {
		t.Errorf("Label = %q, want %q", ule.Label, "render")
	}

	err = schema.AddSystem("cleanup", recordingSystem(nil, "x"))
	var use UnknownStageError
	if !errors.As(err, &use) {
		t.Fatalf("err = %v, want UnknownStageError", err)
	}
}

func TestDuplicateStageAndLabel(t *testing.T) {
	schema := Factory.NewSchema()
	if err := schema.AddStage("update"); err != nil {
		t.Fatalf("first AddStage failed: %v", err)
	}
	var dse DuplicateStageError
	if err := schema.AddStage("update"); !errors.As(err, &dse) {
		t.Errorf("duplicate stage err = %v, want DuplicateStageError", err)
	}
	var dle DuplicateLabelError
	if err := schema.AddStage("render", "draw", "draw"); !errors.As(err, &dle) {
		t.Errorf("duplicate label err = %v, want DuplicateLabelError", err)
	}
}

func TestRunStageUnknown(t *testing.T) {
	f := newFixture()
	w := f.world(t)
	var use UnknownStageError
	if err := w.RunStage("nope"); !errors.As(err, &use) {
		t.Fatalf("err = %v, want UnknownStageError", err)
	}
}

func TestSystemErrorAbortsStage(t *testing.T) {
	f := newFixture()
	f.schema.AddStage("update")
	boom := errors.New("boom")
	var ranAfter bool
	f.schema.AddSystem("update", func(ctx *Ctx) error {
		ctx.Commands().Spawn(f.pos.With(Position{X: 1}))
		return boom
	})
	f.schema.AddSystem("update", func(ctx *Ctx) error {
		ranAfter = true
		return nil
	})
	w := f.world(t)

	err := w.RunStage("update")
	var se StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StageError", err)
	}
	if se.System != 0 || !errors.Is(err, boom) {
		t.Errorf("StageError = %+v, want system 0 wrapping boom", se)
	}
	if ranAfter {
		t.Errorf("later system ran after abort")
	}

	// Commands from the failed run stay pending until the host decides.
	if w.Commands().Len() != 1 {
		t.Fatalf("pending commands = %d, want 1", w.Commands().Len())
	}
	if got := len(w.Entities(Factory.NewQuery(f.pos))); got != 0 {
		t.Errorf("entities before explicit flush = %d, want 0", got)
	}
	if err := w.FlushCommands(); err != nil {
		t.Fatalf("explicit flush failed: %v", err)
	}
	if got := len(w.Entities(Factory.NewQuery(f.pos))); got != 1 {
		t.Errorf("entities after explicit flush = %d, want 1", got)
	}
}

func TestDiscardCommandsAfterAbort(t *testing.T) {
	f := newFixture()
	f.schema.AddStage("update")
	f.schema.AddSystem("update", func(ctx *Ctx) error {
		ctx.Commands().Spawn(f.pos.With(Position{}))
		return errors.New("boom")
	})
	w := f.world(t)

	if err := w.RunStage("update"); err == nil {
		t.Fatal("RunStage should have failed")
	}
	w.DiscardCommands()
	if w.Commands().Len() != 0 {
		t.Errorf("pending commands after discard = %d, want 0", w.Commands().Len())
	}
	if got := len(w.Entities(Factory.NewQuery(f.pos))); got != 0 {
		t.Errorf("entities after discard = %d, want 0", got)
	}
}

func TestRunStageListStopsAtError(t *testing.T) {
	f := newFixture()
	f.schema.AddStage("first")
	f.schema.AddStage("second")
	f.schema.AddStage("third")
	var trace []string
	f.schema.AddSystem("first", recordingSystem(&trace, "first"))
	f.schema.AddSystem("second", func(ctx *Ctx) error {
		trace = append(trace, "second")
		return errors.New("boom")
	})
	f.schema.AddSystem("third", recordingSystem(&trace, "third"))
	w := f.world(t)

	err := w.RunStageList("first", "second", "third")
	var se StageError
	if !errors.As(err, &se) || se.Stage != "second" {
		t.Fatalf("err = %v, want StageError from second", err)
	}
	if len(trace) != 2 || trace[0] != "first" || trace[1] != "second" {
		t.Errorf("trace = %v, want [first second]", trace)
	}
}

func TestDeferredCommandsVisibleAfterStage(t *testing.T) {
	f := newFixture()
	f.schema.AddStage("update")
	var midStageCount int
	f.schema.AddSystem("update", func(ctx *Ctx) error {
		ctx.Commands().Spawn(f.pos.With(Position{X: 5}))
		return nil
	})
	f.schema.AddSystem("update", func(ctx *Ctx) error {
		midStageCount = len(ctx.World().Entities(Factory.NewQuery(f.pos)))
		return nil
	})
	w := f.world(t)

	if err := w.RunStage("update"); err != nil {
		t.Fatalf("RunStage failed: %v", err)
	}
	if midStageCount != 0 {
		t.Errorf("mid-stage count = %d, want 0 (spawn is deferred)", midStageCount)
	}
	if got := len(w.Entities(Factory.NewQuery(f.pos))); got != 1 {
		t.Errorf("count after stage = %d, want 1", got)
	}
}

func TestDirectMutationLockedDuringStage(t *testing.T) {
	f := newFixture()
	f.schema.AddStage("update")
	var spawnErr, despawnErr, attachErr, runErr error
	f.schema.AddSystem("update", func(ctx *Ctx) error {
		w := ctx.World()
		_, spawnErr = w.Spawn()
		e, _ := firstEntity(w, f.pos)
		despawnErr = w.Despawn(e)
		attachErr = f.pos.Attach(w, e, Position{X: 9})
		runErr = w.RunStage("update")
		return nil
	})
	w := f.world(t)
	seed, _ := w.Spawn(f.pos.With(Position{X: 1}))

	if err := w.RunStage("update"); err != nil {
		t.Fatalf("RunStage failed: %v", err)
	}
	var lw LockedWorldError
	for name, err := range map[string]error{
		"Spawn":    spawnErr,
		"Despawn":  despawnErr,
		"Attach":   attachErr,
		"RunStage": runErr,
	} {
		if !errors.As(err, &lw) {
			t.Errorf("%s during stage = %v, want LockedWorldError", name, err)
		}
	}
	if got, _ := f.pos.Snapshot(w, seed); got.X != 1 {
		t.Errorf("seed mutated during locked stage: %v", got)
	}
}

func firstEntity(w *World, c Component) (Entity, bool) {
	matched := w.Entities(Factory.NewQuery(c))
	if len(matched) == 0 {
		return Entity{}, false
	}
	return matched[0], true
}
