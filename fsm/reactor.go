package fsm

import "github.com/milk9111/tilequest/event"

// Notifier is the event sink reactors announce side effects through. Notify
// is queued delivery, NotifyNow is synchronous.
type Notifier interface {
	Notify(evt event.Event)
	NotifyNow(evt event.Event)
}

// StateReactor is the behaviour of a single state.
type StateReactor[D any, S comparable, T any] interface {
	// StateType returns the state this reactor represents.
	StateType() S
	// EnterState runs once when the machine transitions into this state.
	EnterState()
	// UpdateState runs once per running Update while this state is current.
	// It returns a transition to feed back into the machine and true, or
	// false when nothing should happen.
	UpdateState(delta float64) (T, bool)
	// LeaveState runs once when the machine transitions away.
	LeaveState()
	// React maps an incoming transition to the next state.
	React(t T) S
}

// Factory builds the reactor for one state around the shared data.
type Factory[D any, S comparable, T any] func(data *D, n Notifier) StateReactor[D, S, T]

// Reactor carries the fields every reactor needs and the default
// behaviour for each callback. Concrete reactors embed it and override
// what they need.
type Reactor[D any, S comparable, T any] struct {
	State   S
	Data    *D
	Subject Notifier
}

// NewReactor returns a Reactor for state. A nil notifier is replaced by one
// that drops every event.
func NewReactor[D any, S comparable, T any](state S, data *D, n Notifier) Reactor[D, S, T] {
	if n == nil {
		n = Discard
	}
	return Reactor[D, S, T]{State: state, Data: data, Subject: n}
}

func (r *Reactor[D, S, T]) StateType() S { return r.State }
func (r *Reactor[D, S, T]) EnterState()  {}
func (r *Reactor[D, S, T]) LeaveState()  {}

func (r *Reactor[D, S, T]) UpdateState(float64) (T, bool) {
	var zero T
	return zero, false
}

// React returns the zero state. Reactors that receive transitions should
// override it; an FSM whose zero state is not registered will treat this as
// staying in place.
func (r *Reactor[D, S, T]) React(T) S {
	var zero S
	return zero
}

// Funcs is a reactor assembled from closures. Nil callbacks are no-ops and
// a nil OnReact keeps the machine in State.
type Funcs[D any, S comparable, T any] struct {
	State    S
	OnEnter  func()
	OnUpdate func(delta float64) (T, bool)
	OnLeave  func()
	OnReact  func(t T) S
}

func (f *Funcs[D, S, T]) StateType() S { return f.State }

func (f *Funcs[D, S, T]) EnterState() {
	if f.OnEnter != nil {
		f.OnEnter()
	}
}

func (f *Funcs[D, S, T]) UpdateState(delta float64) (T, bool) {
	if f.OnUpdate != nil {
		return f.OnUpdate(delta)
	}
	var zero T
	return zero, false
}

func (f *Funcs[D, S, T]) LeaveState() {
	if f.OnLeave != nil {
		f.OnLeave()
	}
}

func (f *Funcs[D, S, T]) React(t T) S {
	if f.OnReact != nil {
		return f.OnReact(t)
	}
	return f.State
}

type discard struct{}

func (discard) Notify(event.Event)    {}
func (discard) NotifyNow(event.Event) {}

// Discard is a Notifier that drops every event.
var Discard Notifier = discard{}
