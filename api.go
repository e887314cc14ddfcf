package depot

// TypeID is the schema-assigned index of a component type. It doubles as the
// component's bit in entity masks and its column slot in the world.
type TypeID uint32

// MaxComponentTypes bounds how many component types one schema may register.
// The limit matches the mask width used for entity signatures.
const MaxComponentTypes = 64

// DefaultCapacity is the sparse entity bound used when a world is built
// without an explicit capacity.
const DefaultCapacity = 1024

// Component is the type-erased handle for a registered component type.
// Handles are produced by RegisterComponent and used to build queries,
// bundles, and command-buffer values.
type Component interface {
	TypeID() TypeID
	name() string
	newColumn(capacity int) column
	wrap(v any) (ComponentValue, error)
}

// ComponentValue pairs a component handle with a fully formed value, ready to
// be attached to an entity directly or through the command buffer.
type ComponentValue struct {
	comp  Component
	value any
}

// Type returns the handle the value was built from.
func (cv ComponentValue) Type() Component { return cv.comp }

// SystemFunc is user logic invoked once per stage run. Any error aborts the
// remainder of the stage and propagates to the RunStage caller.
type SystemFunc func(ctx *Ctx) error

// CrashReason identifies why the crash hook fired.
type CrashReason int

const (
	// ReasonEntityCeiling means the configured hard entity count was reached.
	ReasonEntityCeiling CrashReason = iota
)

func (r CrashReason) String() string {
	switch r {
	case ReasonEntityCeiling:
		return "entity ceiling reached"
	default:
		return "unknown"
	}
}

// HookStatus is the crash hook's verdict on a capacity failure.
type HookStatus int

const (
	// HookFatal propagates the failure to the caller as fatal.
	HookFatal HookStatus = iota
	// HookRecover treats the failing operation as recovered; the world stays
	// intact and the operation reports a recoverable error.
	HookRecover
)

// CrashHook is a user-supplied recovery callback for hard capacity limits.
type CrashHook func(reason CrashReason) HookStatus
