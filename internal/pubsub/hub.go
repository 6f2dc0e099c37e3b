package pubsub

import "sync"

// subscriberBuffer is the per-subscriber channel capacity. A full buffer
// means the subscriber is not keeping up and further values are dropped
// for it.
const subscriberBuffer = 64

// Hub fans out published values to any number of channel subscribers.
//
// Hub is safe for concurrent use. Publishing never blocks: values are
// dropped for subscribers whose buffer is full. After [Hub.Close] all
// subscriber channels are closed and further operations are no-ops.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[chan T]struct{}
	closed bool
}

// New creates an empty [Hub].
func New[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[chan T]struct{})}
}

// Subscribe creates a new subscription and returns its channel.
//
// The channel is closed by [Hub.Unsubscribe] or [Hub.Close]. Callers
// must unsubscribe when done to prevent resource leaks. Subscribing to
// a closed hub returns a closed channel.
func (h *Hub[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (h *Hub[T]) Unsubscribe(ch <-chan T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub == ch {
			delete(h.subs, sub)
			close(sub)
			break
		}
	}
}

// Publish sends v to all current subscribers without blocking.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- v:
		default:
			// subscriber is slow, drop the value
		}
	}
}

// Close closes all subscriber channels and marks the hub closed.
// Close is idempotent.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
