// Package component defines the typed handles entities store their data
// under, and the component types the game attaches.
package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID identifies one component kind within a process.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the typed key a world stores *T values under. The zero
// value is invalid.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind allocates a fresh kind named after T.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{
		id:   ComponentID(nextComponentID.Add(1)),
		name: fmt.Sprintf("%T", *new(T)),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }
func (k ComponentKind[T]) Valid() bool     { return k.id != 0 }

// Name is the Go type the kind stores, such as "component.Sprite".
func (k ComponentKind[T]) Name() string {
	if k.name == "" {
		return fmt.Sprintf("%T", *new(T))
	}
	return k.name
}

func (k ComponentKind[T]) String() string {
	return fmt.Sprintf("%s#%d", k.Name(), k.id)
}

// ComponentHandle is declared once per component type as a package
// variable; systems query through its Kind.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
