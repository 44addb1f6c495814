package event

import "sync"

// Bus is a synchronous observer registry. Publish dispatches to every
// subscriber in subscription order on the caller's goroutine; the core is
// single-threaded, so handlers must return promptly and must not publish
// re-entrantly into a mutating core operation.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(Event)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every published event and returns an
// unsubscribe function. Unsubscribing twice is a no-op.
//
// Precondition: fn must be non-nil.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		panic("event.Bus.Subscribe: fn must not be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to all current subscribers in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}
