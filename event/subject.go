package event

// Observer receives events from a Subject. OnNotify is the queued path and
// should only buffer; OnNotifyNow runs synchronously inside the emitter's
// call stack.
type Observer interface {
	OnNotify(evt Event)
	OnNotifyNow(evt Event)
}

// Subject fans events out to its observers.
type Subject struct {
	observers []Observer
}

// AddObserver registers o. Adding the same observer twice is a no-op.
func (s *Subject) AddObserver(o Observer) {
	if s == nil || o == nil {
		return
	}
	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
}

// RemoveObserver unregisters o.
func (s *Subject) RemoveObserver(o Observer) {
	if s == nil {
		return
	}
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Observers returns the number of registered observers.
func (s *Subject) Observers() int {
	if s == nil {
		return 0
	}
	return len(s.observers)
}

// Notify queues evt on every observer. Observers see it when they next
// process their queue.
func (s *Subject) Notify(evt Event) {
	if s == nil {
		return
	}
	for _, o := range s.snapshot() {
		o.OnNotify(evt)
	}
}

// NotifyNow delivers evt to every observer before returning.
func (s *Subject) NotifyNow(evt Event) {
	if s == nil {
		return
	}
	for _, o := range s.snapshot() {
		o.OnNotifyNow(evt)
	}
}

// snapshot lets observers add or remove observers while being notified.
func (s *Subject) snapshot() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}
