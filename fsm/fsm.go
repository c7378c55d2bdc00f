// Package fsm is a generic event-driven finite state machine. Each state is
// backed by a StateReactor; the machine owns the current state, feeds
// transitions to the current reactor and runs the enter/leave callbacks when
// the state changes.
package fsm

import (
	"errors"
	"fmt"
)

var (
	ErrNilData              = errors.New("fsm: data cannot be nil")
	ErrNilReactor           = errors.New("fsm: factory returned a nil reactor")
	ErrDuplicateReactor     = errors.New("fsm: more than one reactor for a state")
	ErrMissingReactor       = errors.New("fsm: no reactor for state")
	ErrReactorStateMismatch = errors.New("fsm: reactor registered under the wrong state")
)

// FSM drives a set of reactors sharing a *D payload.
type FSM[D any, S comparable, T any] struct {
	data     *D
	subject  Notifier
	reactors map[S]StateReactor[D, S, T]

	current    S
	end        S
	terminated bool
	running    bool
}

// New builds a perpetual machine starting in begin with one reactor per
// factory. The machine starts stopped.
func New[D any, S comparable, T any](data *D, begin S, n Notifier, factories ...Factory[D, S, T]) (*FSM[D, S, T], error) {
	return build(data, begin, begin, false, n, factories)
}

// NewTerminated builds a machine that stops itself once it reaches end.
func NewTerminated[D any, S comparable, T any](data *D, begin, end S, n Notifier, factories ...Factory[D, S, T]) (*FSM[D, S, T], error) {
	return build(data, begin, end, true, n, factories)
}

func build[D any, S comparable, T any](data *D, begin, end S, terminated bool, n Notifier, factories []Factory[D, S, T]) (*FSM[D, S, T], error) {
	if data == nil {
		return nil, ErrNilData
	}
	if n == nil {
		n = Discard
	}

	m := &FSM[D, S, T]{
		data:       data,
		subject:    n,
		reactors:   make(map[S]StateReactor[D, S, T], len(factories)),
		current:    begin,
		end:        end,
		terminated: terminated,
	}
	for _, f := range factories {
		r := f(data, n)
		s, ok := stateType[D, S, T](r)
		if !ok {
			return nil, ErrNilReactor
		}
		if _, ok := m.reactors[s]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateReactor, s)
		}
		m.reactors[s] = r
	}

	if _, ok := m.reactors[begin]; !ok {
		return nil, fmt.Errorf("%w: begin state %v", ErrMissingReactor, begin)
	}
	if _, ok := m.reactors[end]; terminated && !ok {
		return nil, fmt.Errorf("%w: end state %v", ErrMissingReactor, end)
	}
	return m, nil
}

// stateType reads r's state. A nil interface or a typed nil pointer whose
// StateType dereferences its receiver reports false.
func stateType[D any, S comparable, T any](r StateReactor[D, S, T]) (s S, ok bool) {
	if r == nil {
		return s, false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return r.StateType(), true
}

// Transition asks the current reactor how to react to t. When the answer is
// a different registered state, the old reactor leaves and the new one
// enters. Reacting with the current state fires no callbacks, and a state
// without a reactor is ignored.
func (m *FSM[D, S, T]) Transition(t T) {
	next := m.reactors[m.current].React(t)
	if next != m.current {
		if to, ok := m.reactors[next]; ok {
			m.reactors[m.current].LeaveState()
			m.current = next
			to.EnterState()
		}
	}
	if m.InFinalState() {
		m.running = false
	}
}

// Update runs the current reactor's UpdateState while the machine is running
// and applies the transition it produces, if any. At most one transition
// happens per call.
func (m *FSM[D, S, T]) Update(delta float64) {
	if !m.running {
		return
	}
	if t, ok := m.reactors[m.current].UpdateState(delta); ok {
		m.Transition(t)
	}
}

// Start arms the machine. It does not run EnterState for the current state;
// the first EnterState happens on the first real transition.
func (m *FSM[D, S, T]) Start() {
	m.running = true
}

// Stop disarms the machine.
func (m *FSM[D, S, T]) Stop() {
	m.running = false
}

// Running reports whether Update dispatches.
func (m *FSM[D, S, T]) Running() bool {
	return m.running
}

// InFinalState reports whether a terminated machine has reached its end
// state. Always false for perpetual machines.
func (m *FSM[D, S, T]) InFinalState() bool {
	return m.terminated && m.current == m.end
}

// Terminated reports whether the machine was built with an end state.
func (m *FSM[D, S, T]) Terminated() bool {
	return m.terminated
}

// Current returns the current state.
func (m *FSM[D, S, T]) Current() S {
	return m.current
}

// Data returns the shared payload.
func (m *FSM[D, S, T]) Data() *D {
	return m.data
}

// Reactor returns the reactor registered for s.
func (m *FSM[D, S, T]) Reactor(s S) (StateReactor[D, S, T], bool) {
	r, ok := m.reactors[s]
	return r, ok
}
