package reset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/queue"
	"github.com/seatmate/seatmate/internal/repository"
	"github.com/seatmate/seatmate/internal/utils"
)

func seedStore(t *testing.T) *repository.MemStore {
	t.Helper()
	store := repository.NewMemStore()
	ctx := context.Background()
	require.NoError(t, store.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 1, Gender: model.Male, Occupant: "user_a", StudentID: "20250001",
	}))
	require.NoError(t, store.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 2, Gender: model.Male, Occupant: "user_b",
	}))
	require.NoError(t, store.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 1, Gender: model.Female, Occupant: "user_c",
	}))
	return store
}

func captureSink(events *[]queue.Envelope) PublishFunc {
	return func(_ context.Context, env queue.Envelope) error {
		*events = append(*events, env)
		return nil
	}
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashSecret("swordfish")
	require.NoError(t, err)

	t.Run("wrong secret has no side effects", func(t *testing.T) {
		store := seedStore(t)
		var events []queue.Envelope
		c := NewCoordinator(store, hash, captureSink(&events))

		_, err := c.ResetAll(ctx, "wrong")
		assert.ErrorIs(t, err, ErrUnauthorized)

		rows, _ := store.ListAssignments(ctx, model.Male)
		assert.Len(t, rows, 2, "rows must survive a failed authorization")
		assert.Empty(t, events)
		_, err = store.GetSystemState(ctx)
		assert.ErrorIs(t, err, repository.ErrStateNotFound)
	})

	t.Run("correct secret wipes both partitions and bumps the marker", func(t *testing.T) {
		store := seedStore(t)
		var events []queue.Envelope
		c := NewCoordinator(store, hash, captureSink(&events))

		before := time.Now().UTC()
		state, err := c.ResetAll(ctx, "swordfish")
		require.NoError(t, err)
		assert.False(t, state.ResetTimestamp.Before(before))
		assert.Contains(t, state.ResetID, "reset_")

		male, _ := store.ListAssignments(ctx, model.Male)
		female, _ := store.ListAssignments(ctx, model.Female)
		assert.Empty(t, male)
		assert.Empty(t, female)

		stored, err := store.GetSystemState(ctx)
		require.NoError(t, err)
		assert.Equal(t, state.ResetID, stored.ResetID)

		require.Len(t, events, 1)
		assert.Equal(t, queue.KindSeatsReset, events[0].Kind)
		require.NotNil(t, events[0].SeatsReset)
		assert.Equal(t, state.ResetID, events[0].SeatsReset.ResetID)
	})

	t.Run("repeat reset advances the marker", func(t *testing.T) {
		store := seedStore(t)
		c := NewCoordinator(store, hash)
		first, err := c.ResetAll(ctx, "swordfish")
		require.NoError(t, err)
		second, err := c.ResetAll(ctx, "swordfish")
		require.NoError(t, err)
		assert.NotEqual(t, first.ResetID, second.ResetID)
		assert.False(t, second.ResetTimestamp.Before(first.ResetTimestamp))
	})
}

func TestScheduledResetAll(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	var events []queue.Envelope
	// No secret involved: the scheduler authenticates at the transport layer.
	c := NewCoordinator(store, nil, captureSink(&events))

	state, err := c.ScheduledResetAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, state.ResetID)

	male, _ := store.ListAssignments(ctx, model.Male)
	assert.Empty(t, male)
	require.Len(t, events, 1)
	assert.Equal(t, queue.KindSeatsReset, events[0].Kind)
}

func TestResetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only the caller's rows", func(t *testing.T) {
		store := seedStore(t)
		var events []queue.Envelope
		c := NewCoordinator(store, nil, captureSink(&events))

		released, err := c.ResetMine(ctx, "user_a")
		require.NoError(t, err)
		assert.Equal(t, int64(1), released)

		male, _ := store.ListAssignments(ctx, model.Male)
		female, _ := store.ListAssignments(ctx, model.Female)
		assert.Len(t, male, 1)
		assert.Len(t, female, 1)

		require.Len(t, events, 1)
		assert.Equal(t, queue.KindSeatChanged, events[0].Kind)
		assert.Equal(t, "delete", events[0].SeatChanged.Op)
	})

	t.Run("idempotent for an identity with no seat", func(t *testing.T) {
		store := seedStore(t)
		var events []queue.Envelope
		c := NewCoordinator(store, nil, captureSink(&events))

		released, err := c.ResetMine(ctx, "user_nobody")
		require.NoError(t, err)
		assert.Zero(t, released)
		assert.Empty(t, events, "no broadcast when nothing was released")
	})
}
