package ecs

import (
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/event"
)

// Destroyer is implemented by component values that own resources beyond
// the world, such as a transform wired into a scene graph.
type Destroyer interface {
	Destroy()
}

// World owns entities, components, systems and the event subject systems
// talk through.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*sparseSet
	scheduler *Scheduler
	subject   event.Subject

	delta float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*sparseSet),
		scheduler: NewScheduler(),
	}
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	if w == nil {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. Component
// values implementing Destroyer are destroyed on the way out.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	for _, s := range w.stores {
		if v, ok := s.remove(e); ok {
			if d, ok := v.(Destroyer); ok {
				d.Destroy()
			}
		}
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}

// Clear destroys every entity. Systems and observers stay registered.
func (w *World) Clear() {
	for _, e := range Entities(w) {
		DestroyEntity(w, e)
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	w.scheduler.Add(s)
}

// Systems returns the update order.
func (w *World) Systems() []System {
	return w.scheduler.Systems()
}

// Update runs all systems once with delta seconds of game time.
func (w *World) Update(delta float64) {
	if w == nil {
		return
	}
	w.delta = delta
	w.scheduler.Update(w)
}

// Delta returns the seconds of game time covered by the current Update.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}
