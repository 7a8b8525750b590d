package event

// Bus is a single-consumer event stream. Publishers block when the
// buffer is full, which preserves publish order per goroutine; the
// controller pump is expected to keep draining it.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer capacity.
func NewBus(capacity int) *Bus {
	return &Bus{ch: make(chan Event, capacity)}
}

// Publish places an event on the bus in order.
func (b *Bus) Publish(ev Event) {
	b.ch <- ev
}

// Events returns the receive side of the bus.
func (b *Bus) Events() <-chan Event {
	return b.ch
}
