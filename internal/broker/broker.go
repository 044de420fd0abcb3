// Package broker provides the in-process publish/subscribe conduit that
// replaces page-level DOM events as the cross-component message bus.
// Server handlers publish typed events here; the SSE endpoint and any
// in-process reconciler subscribe.  Slow subscribers are dropped rather
// than blocking publishers.
package broker

import (
	"sync"

	"github.com/seatmate/seatmate/internal/queue"
)

// Broker is a mutex-guarded subscriber registry of buffered channels.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan queue.Envelope]struct{}
}

// New returns an empty Broker.
func New() *Broker {
	return &Broker{subs: make(map[chan queue.Envelope]struct{})}
}

// Subscribe registers a new subscriber and returns its channel.  The
// channel is buffered; events are dropped for subscribers that fall
// behind.
func (b *Broker) Subscribe() chan queue.Envelope {
	ch := make(chan queue.Envelope, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the registry and closes it.
func (b *Broker) Unsubscribe(ch chan queue.Envelope) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers the envelope to every current subscriber without
// blocking.
func (b *Broker) Publish(env queue.Envelope) {
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- env:
		default:
			// Drop for slow subscribers.
		}
	}
	b.mu.RUnlock()
}

// SubscriberCount reports how many subscribers are registered.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
