package event

// Queue is a simple FIFO queue.
type Queue struct {
	items []Event
}

// Push adds an event.
func (q *Queue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Mailbox is an embeddable Observer half: it buffers queued events until the
// owner calls ProcessEventQueue. Owners implement OnNotifyNow themselves.
type Mailbox struct {
	queue Queue
}

// OnNotify buffers evt.
func (m *Mailbox) OnNotify(evt Event) {
	m.queue.Push(evt)
}

// Pending reports whether queued events are waiting.
func (m *Mailbox) Pending() bool {
	return m.queue.Len() > 0
}

// ProcessEventQueue hands every buffered event to handle in arrival order.
// Events queued by handle itself are processed in the same call.
func (m *Mailbox) ProcessEventQueue(handle func(Event)) {
	for m.Pending() {
		for _, evt := range m.queue.Drain() {
			handle(evt)
		}
	}
}

// Bus is an Observer that buffers queued events and forwards immediate ones
// to a callback. Systems use it to subscribe without defining a type.
type Bus struct {
	Mailbox
	Now func(Event)
}

// OnNotifyNow forwards evt to b.Now when set.
func (b *Bus) OnNotifyNow(evt Event) {
	if b.Now != nil {
		b.Now(evt)
	}
}
