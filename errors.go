package depot

import "fmt"

type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is locked while a stage runs; use Commands for structural changes"
}

// CeilingError reports a spawn rejected at the configured entity ceiling.
// Recovered reflects the crash hook's verdict.
type CeilingError struct {
	Ceiling   int
	Recovered bool
}

func (e CeilingError) Error() string {
	if e.Recovered {
		return fmt.Sprintf("entity ceiling (%d) reached; crash hook recovered", e.Ceiling)
	}
	return fmt.Sprintf("entity ceiling (%d) reached", e.Ceiling)
}

type DeadEntityError struct {
	Entity Entity
}

func (e DeadEntityError) Error() string {
	return fmt.Sprintf("entity %v is not alive", e.Entity)
}

type UnknownStageError struct {
	Stage string
}

func (e UnknownStageError) Error() string {
	return fmt.Sprintf("stage not registered: %s", e.Stage)
}

type UnknownLabelError struct {
	Stage, Label string
}

func (e UnknownLabelError) Error() string {
	return fmt.Sprintf("label %q not registered in stage %q", e.Label, e.Stage)
}

type DuplicateStageError struct {
	Stage string
}

func (e DuplicateStageError) Error() string {
	return fmt.Sprintf("stage already registered: %s", e.Stage)
}

type DuplicateLabelError struct {
	Stage, Label string
}

func (e DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label %q in stage %q", e.Label, e.Stage)
}

// StageError wraps an error returned by a system. System is the position of
// the failing system in the stage's resolved run order.
type StageError struct {
	Stage  string
	System int
	Err    error
}

func (e StageError) Error() string {
	return fmt.Sprintf("stage %q aborted at system %d: %v", e.Stage, e.System, e.Err)
}

func (e StageError) Unwrap() error { return e.Err }

// FlushError reports a command-buffer flush that stopped partway. Applied
// commands are not rolled back.
type FlushError struct {
	Applied int
	Err     error
}

func (e FlushError) Error() string {
	return fmt.Sprintf("command flush failed after %d applied commands: %v", e.Applied, e.Err)
}

func (e FlushError) Unwrap() error { return e.Err }

type MalformedBundleError struct {
	Bundle string
	Reason string
}

func (e MalformedBundleError) Error() string {
	return fmt.Sprintf("malformed bundle %q: %s", e.Bundle, e.Reason)
}

type BundleArityError struct {
	Bundle    string
	Want, Got int
}

func (e BundleArityError) Error() string {
	return fmt.Sprintf("bundle %q expects %d values, got %d", e.Bundle, e.Want, e.Got)
}

type BundleValueError struct {
	Bundle    string
	Position  int
	Component string
}

func (e BundleValueError) Error() string {
	return fmt.Sprintf("bundle %q value %d is not a %s", e.Bundle, e.Position, e.Component)
}

type ComponentValueTypeError struct {
	Component string
}

func (e ComponentValueTypeError) Error() string {
	return fmt.Sprintf("value is not assignable to component type %s", e.Component)
}

type WorldConfigError struct {
	Reason string
}

func (e WorldConfigError) Error() string {
	return fmt.Sprintf("invalid world configuration: %s", e.Reason)
}
