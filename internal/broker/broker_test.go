package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatmate/seatmate/internal/queue"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	a := b.Subscribe()
	c := b.Subscribe()
	assert.Equal(t, 2, b.SubscriberCount())

	env := queue.Envelope{Kind: queue.KindSeatsReset, SeatsReset: &queue.SeatsResetEvent{ResetID: "reset_x"}}
	b.Publish(env)

	for _, ch := range []chan queue.Envelope{a, c} {
		select {
		case got := <-ch:
			assert.Equal(t, "reset_x", got.SeatsReset.ResetID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	assert.Zero(t, b.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe must not panic on the already-closed channel.
	b.Unsubscribe(ch)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := New()
	ch := b.Subscribe()

	// Overflow the buffer without draining; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(queue.Envelope{Kind: queue.KindSeatChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The buffered prefix is still there.
	require.NotEmpty(t, ch)
	assert.LessOrEqual(t, len(ch), cap(ch))
}
