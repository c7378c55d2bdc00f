package fsm

import "fmt"

// Builder collects (state, factory) registrations before a machine is built.
type Builder[D any, S comparable, T any] struct {
	order     []S
	factories map[S]Factory[D, S, T]
	err       error
}

// NewBuilder returns an empty builder.
func NewBuilder[D any, S comparable, T any]() *Builder[D, S, T] {
	return &Builder[D, S, T]{factories: make(map[S]Factory[D, S, T])}
}

// Register adds the factory for state. Registering a state twice is an
// error reported by Build.
func (b *Builder[D, S, T]) Register(state S, f Factory[D, S, T]) *Builder[D, S, T] {
	if _, ok := b.factories[state]; ok && b.err == nil {
		b.err = fmt.Errorf("%w: %v", ErrDuplicateReactor, state)
	}
	if f == nil && b.err == nil {
		b.err = fmt.Errorf("%w: %v", ErrNilReactor, state)
	}
	if _, ok := b.factories[state]; !ok {
		b.order = append(b.order, state)
	}
	b.factories[state] = f
	return b
}

// RegisterFuncs registers a closure reactor built by fn for state.
func (b *Builder[D, S, T]) RegisterFuncs(state S, fn func(data *D, n Notifier) *Funcs[D, S, T]) *Builder[D, S, T] {
	return b.Register(state, func(data *D, n Notifier) StateReactor[D, S, T] {
		f := fn(data, n)
		if f == nil {
			return nil
		}
		f.State = state
		return f
	})
}

// Build creates a perpetual machine.
func (b *Builder[D, S, T]) Build(data *D, begin S, n Notifier) (*FSM[D, S, T], error) {
	if b.err != nil {
		return nil, b.err
	}
	m, err := New(data, begin, n, b.list()...)
	if err != nil {
		return nil, err
	}
	if err := b.verify(m); err != nil {
		return nil, err
	}
	return m, nil
}

// BuildTerminated creates a machine that stops in end.
func (b *Builder[D, S, T]) BuildTerminated(data *D, begin, end S, n Notifier) (*FSM[D, S, T], error) {
	if b.err != nil {
		return nil, b.err
	}
	m, err := NewTerminated(data, begin, end, n, b.list()...)
	if err != nil {
		return nil, err
	}
	if err := b.verify(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder[D, S, T]) list() []Factory[D, S, T] {
	out := make([]Factory[D, S, T], 0, len(b.order))
	for _, state := range b.order {
		out = append(out, b.factories[state])
	}
	return out
}

// verify fails the build when a factory produced a reactor for a state other
// than the one it was registered under.
func (b *Builder[D, S, T]) verify(m *FSM[D, S, T]) error {
	for _, state := range b.order {
		if _, ok := m.reactors[state]; !ok {
			return fmt.Errorf("%w: %v", ErrReactorStateMismatch, state)
		}
	}
	return nil
}
