// Package fsm provides a small generic finite-state machine usable from any
// system. Machines are plain values owned by their creator; nothing in the
// ECS runtime depends on them.
package fsm

import "fmt"

// NoTransitionError reports an event with no transition registered for the
// machine's current state. The machine's state is left unchanged.
type NoTransitionError[S, E comparable] struct {
	State S
	Event E
}

func (e NoTransitionError[S, E]) Error() string {
	return fmt.Sprintf("no transition for current state %v on event %v", e.State, e.Event)
}

// Machine maps (state, event) pairs to successor states.
type Machine[S, E comparable] struct {
	current     S
	transitions map[S]map[E]S
}

// New creates a machine in the given initial state.
func New[S, E comparable](initial S) *Machine[S, E] {
	return &Machine[S, E]{
		current:     initial,
		transitions: make(map[S]map[E]S),
	}
}

// AddTransition registers from --event--> to, replacing any previous
// transition for the pair.
func (m *Machine[S, E]) AddTransition(from S, event E, to S) {
	row, ok := m.transitions[from]
	if !ok {
		row = make(map[E]S)
		m.transitions[from] = row
	}
	row[event] = to
}

// Fire applies event to the current state and returns the new state. On a
// missing transition it returns a NoTransitionError and the state does not
// change.
func (m *Machine[S, E]) Fire(event E) (S, error) {
	if to, ok := m.transitions[m.current][event]; ok {
		m.current = to
		return to, nil
	}
	return m.current, NoTransitionError[S, E]{State: m.current, Event: event}
}

// Current returns the machine's state.
func (m *Machine[S, E]) Current() S { return m.current }

// Is reports whether the machine is in state s.
func (m *Machine[S, E]) Is(s S) bool { return m.current == s }
