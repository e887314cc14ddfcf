package depot

import (
	"fmt"
	"reflect"
)

// Schema is the registration front-end: component, resource, event, bundle,
// stage, and system declarations collected before the world exists. World
// construction seals it; the resulting tables are fixed for the world's
// lifetime. Statically detectable schema errors are rejected here and never
// surface at runtime.
type Schema struct {
	sealed bool

	componentIDs map[reflect.Type]TypeID
	components   []Component

	resourceIDs map[reflect.Type]int
	resources   []resourceEntry

	eventIDs map[reflect.Type]int
	events   []func() eventChannel

	stageIDs map[string]int
	stages   []*stageDef

	bundles map[string]Bundle
}

type resourceEntry struct {
	name string
	init func() any // nil means uninitialized until Set
}

type systemOffset int

const (
	offsetBefore systemOffset = iota
	offsetDuring
	offsetAfter
)

// stageWideLabel is the implicit anchor every stage owns. It sits first, so
// default-placed systems run before any explicitly labeled bucket.
const stageWideLabel = ""

type stageDef struct {
	name    string
	labels  []string
	systems []systemDef
}

type systemDef struct {
	fn     SystemFunc
	label  string
	offset systemOffset
}

func newSchema() *Schema {
	return &Schema{
		componentIDs: make(map[reflect.Type]TypeID),
		resourceIDs:  make(map[reflect.Type]int),
		eventIDs:     make(map[reflect.Type]int),
		stageIDs:     make(map[string]int),
		bundles:      make(map[string]Bundle),
	}
}

func (s *Schema) mustBeOpen() {
	if s.sealed {
		panic("depot: schema is sealed; register before constructing the world")
	}
}

// RegisterComponent assigns T the next ordered type id and returns its typed
// handle. Registering the same type again returns the existing handle.
func RegisterComponent[T any](s *Schema) ComponentType[T] {
	rt := reflect.TypeFor[T]()
	if id, ok := s.componentIDs[rt]; ok {
		return ComponentType[T]{id: id}
	}
	s.mustBeOpen()
	if len(s.components) >= MaxComponentTypes {
		panic(fmt.Sprintf("depot: component type limit (%d) exceeded", MaxComponentTypes))
	}
	id := TypeID(len(s.components))
	handle := ComponentType[T]{id: id}
	s.componentIDs[rt] = id
	s.components = append(s.components, handle)
	return handle
}

// RegisterResource declares a singleton slot for T, left uninitialized until
// its first Set on the world.
func RegisterResource[T any](s *Schema) ResourceType[T] {
	return registerResource[T](s, nil)
}

// RegisterResourceWithDefault declares a singleton slot for T, filled with
// def at world construction.
func RegisterResourceWithDefault[T any](s *Schema, def T) ResourceType[T] {
	return registerResource[T](s, func() any {
		v := def
		return &v
	})
}

func registerResource[T any](s *Schema, init func() any) ResourceType[T] {
	rt := reflect.TypeFor[T]()
	if id, ok := s.resourceIDs[rt]; ok {
		return ResourceType[T]{id: id}
	}
	s.mustBeOpen()
	id := len(s.resources)
	s.resourceIDs[rt] = id
	s.resources = append(s.resources, resourceEntry{name: rt.String(), init: init})
	return ResourceType[T]{id: id}
}

// RegisterEvent declares a double-buffered channel for event type T.
func RegisterEvent[T any](s *Schema) EventType[T] {
	rt := reflect.TypeFor[T]()
	if id, ok := s.eventIDs[rt]; ok {
		return EventType[T]{id: id}
	}
	s.mustBeOpen()
	id := len(s.events)
	s.eventIDs[rt] = id
	s.events = append(s.events, func() eventChannel { return &typedEventChannel[T]{} })
	return EventType[T]{id: id}
}

// Bundle is a predeclared ordered list of component types attached
// atomically. Values bind positionally through With.
type Bundle struct {
	name  string
	comps []Component
}

// Name returns the bundle's registered name.
func (b Bundle) Name() string { return b.name }

// With binds values to the bundle's component slots in declaration order.
func (b Bundle) With(values ...any) (BundleValue, error) {
	if len(values) != len(b.comps) {
		return BundleValue{}, BundleArityError{Bundle: b.name, Want: len(b.comps), Got: len(values)}
	}
	bound := make([]ComponentValue, len(values))
	for i, v := range values {
		cv, err := b.comps[i].wrap(v)
		if err != nil {
			return BundleValue{}, BundleValueError{Bundle: b.name, Position: i, Component: b.comps[i].name()}
		}
		bound[i] = cv
	}
	return BundleValue{bundle: b, values: bound}, nil
}

// BundleValue is a bundle with all slots bound, ready to spawn or attach.
type BundleValue struct {
	bundle Bundle
	values []ComponentValue
}

// Values returns the bound component values in declaration order.
func (bv BundleValue) Values() []ComponentValue { return bv.values }

// RegisterBundle declares a named bundle over previously registered
// components. Malformed bundles (empty, duplicate name, duplicate member)
// are rejected here.
func (s *Schema) RegisterBundle(name string, comps ...Component) (Bundle, error) {
	s.mustBeOpen()
	if len(comps) == 0 {
		return Bundle{}, MalformedBundleError{Bundle: name, Reason: "no components"}
	}
	if _, exists := s.bundles[name]; exists {
		return Bundle{}, MalformedBundleError{Bundle: name, Reason: "duplicate bundle name"}
	}
	seen := make(map[TypeID]struct{}, len(comps))
	for _, c := range comps {
		if _, dup := seen[c.TypeID()]; dup {
			return Bundle{}, MalformedBundleError{Bundle: name, Reason: "duplicate component " + c.name()}
		}
		seen[c.TypeID()] = struct{}{}
	}
	b := Bundle{name: name, comps: append([]Component(nil), comps...)}
	s.bundles[name] = b
	return b, nil
}

// AddStage declares a stage with its ordered labels. The implicit stage-wide
// label always exists and precedes the named ones.
func (s *Schema) AddStage(name string, labels ...string) error {
	s.mustBeOpen()
	if _, exists := s.stageIDs[name]; exists {
		return DuplicateStageError{Stage: name}
	}
	def := &stageDef{name: name, labels: []string{stageWideLabel}}
	seen := map[string]struct{}{stageWideLabel: {}}
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return DuplicateLabelError{Stage: name, Label: l}
		}
		seen[l] = struct{}{}
		def.labels = append(def.labels, l)
	}
	s.stageIDs[name] = len(s.stages)
	s.stages = append(s.stages, def)
	return nil
}

// SystemOption places a system relative to a label's anchor.
type SystemOption func(*systemDef)

// Before anchors the system immediately prior to the named label.
func Before(label string) SystemOption {
	return func(sd *systemDef) { sd.label, sd.offset = label, offsetBefore }
}

// During anchors the system at the named label.
func During(label string) SystemOption {
	return func(sd *systemDef) { sd.label, sd.offset = label, offsetDuring }
}

// After anchors the system immediately following the named label.
func After(label string) SystemOption {
	return func(sd *systemDef) { sd.label, sd.offset = label, offsetAfter }
}

// AddSystem registers fn in a stage. Without options it runs during the
// implicit stage-wide label; registration order breaks ties within a bucket.
func (s *Schema) AddSystem(stage string, fn SystemFunc, opts ...SystemOption) error {
	s.mustBeOpen()
	idx, ok := s.stageIDs[stage]
	if !ok {
		return UnknownStageError{Stage: stage}
	}
	def := s.stages[idx]
	sd := systemDef{fn: fn, label: stageWideLabel, offset: offsetDuring}
	for _, opt := range opts {
		opt(&sd)
	}
	found := false
	for _, l := range def.labels {
		if l == sd.label {
			found = true
			break
		}
	}
	if !found {
		return UnknownLabelError{Stage: stage, Label: sd.label}
	}
	def.systems = append(def.systems, sd)
	return nil
}

func (s *Schema) seal() { s.sealed = true }
