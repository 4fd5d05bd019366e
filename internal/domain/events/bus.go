package events

// DefaultQueueCapacity bounds the outbound queue between drains
const DefaultQueueCapacity = 4096

// Handler receives events synchronously on the publisher's call stack
type Handler func(Event)

// Bus fans events out to subscribers in registration order and keeps a copy
// in an outbound queue for hosts that poll instead of subscribing.
//
// The bus is not safe for concurrent use; its owner serializes access.
type Bus struct {
	handlers []subscription
	nextID   int
	queue    []Event
	capacity int
	dropped  int
}

type subscription struct {
	id      int
	handler Handler
}

// NewBus creates a bus whose queue holds at most capacity events.
// When full, the oldest events are dropped.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Bus{capacity: capacity}
}

// Subscribe registers a handler and returns a function that removes it
func (b *Bus) Subscribe(h Handler) func() {
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, handler: h})
	return func() {
		for i, s := range b.handlers {
			if s.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every subscriber, then queues it
func (b *Bus) Publish(e Event) {
	for _, s := range append([]subscription(nil), b.handlers...) {
		s.handler(e)
	}

	if len(b.queue) >= b.capacity {
		b.queue = b.queue[1:]
		b.dropped++
	}
	b.queue = append(b.queue, e)
}

// Drain returns and clears the queued events
func (b *Bus) Drain() []Event {
	out := b.queue
	b.queue = nil
	return out
}

// Pending is the number of queued events
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Dropped counts events evicted from a full queue
func (b *Bus) Dropped() int {
	return b.dropped
}
