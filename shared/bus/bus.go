package bus

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Envelope wraps a delivered event. Resync is set when the subscriber's buffer
// overflowed and older events were dropped; the subscriber must re-fetch full
// state instead of relying on the event stream being gap-free.
type Envelope[T any] struct {
	Event  T
	Resync bool
}

// Subscription is a single subscriber's bounded delivery buffer. The channel is
// owned by the bus and closed on Unsubscribe.
type Subscription[T any] struct {
	name   string
	filter func(T) bool
	ch     chan Envelope[T]
}

// Events returns the subscriber's delivery channel.
func (s *Subscription[T]) Events() <-chan Envelope[T] {
	return s.ch
}

func (s *Subscription[T]) Name() string {
	return s.name
}

// Bus fans events out to any number of subscribers with at-least-once,
// publish-order delivery. A slow subscriber never blocks Publish: when its
// buffer is full the oldest buffered event is dropped and the next delivery is
// flagged for resync. Buffers are per-subscriber and never shared.
type Bus[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

func New[T any]() *Bus[T] {
	return &Bus[T]{
		subs: map[*Subscription[T]]struct{}{},
	}
}

// Subscribe registers a subscriber with a buffer of the given size. A nil
// filter receives every event. size must be at least 1.
func (b *Bus[T]) Subscribe(name string, size int, filter func(T) bool) *Subscription[T] {
	if size < 1 {
		size = 1
	}

	sub := &Subscription[T]{
		name:   name,
		filter: filter,
		ch:     make(chan Envelope[T], size),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[sub] = struct{}{}

	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}

	delete(b.subs, sub)
	close(sub.ch)
}

// Publish delivers the event to every matching subscriber without blocking.
// Publishes are serialized, so subscribers observe events in publish order.
func (b *Bus[T]) Publish(event T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}

		envelope := Envelope[T]{Event: event}

		select {
		case sub.ch <- envelope:
			continue
		default:
		}

		// Buffer full: drop the oldest event and flag the delivery so the
		// subscriber knows the stream has a gap.
		select {
		case <-sub.ch:
		default:
		}

		// Publish is the only sender and holds the lock, so after the drop
		// there is room for exactly this envelope.
		envelope.Resync = true
		sub.ch <- envelope

		log.Warn().Str("subscriber", sub.name).Msg("subscriber buffer overflowed, dropped oldest event and flagged resync")
	}
}

// Close unsubscribes everyone. Publish after Close is a no-op.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
}
