package ecs

import (
	"fmt"

	"github.com/milk9111/tilequest/ecs/component"
)

// Add attaches value to e under kind, replacing any previous value. Errors
// wrap the component package's sentinels and name the kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", component.ErrInvalidComponentKind, kind.Name())
	}
	if value == nil {
		return fmt.Errorf("%w: %s on %s", component.ErrNilComponent, kind.Name(), e)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s on %s", component.ErrEntityNotAlive, kind.Name(), e)
	}
	w.store(kind.ID(), true).set(e, value)
	return nil
}

// Get returns e's value for kind.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).get(e).(*T)
	return v, ok
}

// Has reports whether e has a value for kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return IsAlive(w, e) && w.store(kind.ID(), false).has(e)
}

// Remove detaches e's value for kind. It returns false when there was none.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	_, ok := w.store(kind.ID(), false).remove(e)
	return ok
}
