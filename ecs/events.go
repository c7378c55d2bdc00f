package ecs

import "github.com/milk9111/tilequest/event"

// Observe subscribes o to every event emitted through the world.
func (w *World) Observe(o event.Observer) {
	if w == nil {
		return
	}
	w.subject.AddObserver(o)
}

// Unobserve removes o.
func (w *World) Unobserve(o event.Observer) {
	if w == nil {
		return
	}
	w.subject.RemoveObserver(o)
}

// Notify queues evt on every observer.
func (w *World) Notify(evt event.Event) {
	if w == nil {
		return
	}
	w.subject.Notify(evt)
}

// NotifyNow delivers evt to every observer before returning.
func (w *World) NotifyNow(evt event.Event) {
	if w == nil {
		return
	}
	w.subject.NotifyNow(evt)
}

// Subject exposes the world's subject for components that need to emit
// without holding the world.
func (w *World) Subject() *event.Subject {
	if w == nil {
		return nil
	}
	return &w.subject
}
