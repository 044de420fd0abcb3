package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatmate/seatmate/internal/model"
)

func TestMemStoreUniqueness(t *testing.T) {
	ctx := context.Background()

	t.Run("seat number is unique per partition", func(t *testing.T) {
		m := NewMemStore()
		require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Male, Occupant: "a",
		}))
		err := m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Male, Occupant: "b",
		})
		assert.ErrorIs(t, err, ErrSeatTaken)

		// Same number in the other partition is fine.
		assert.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Female, Occupant: "b",
		}))
	})

	t.Run("student ID is unique across both partitions", func(t *testing.T) {
		m := NewMemStore()
		require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Male, Occupant: "a", StudentID: "20250001",
		}))
		err := m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 2, Gender: model.Female, Occupant: "b", StudentID: "20250001",
		})
		assert.ErrorIs(t, err, ErrDuplicateStudent)
	})

	t.Run("empty student IDs never collide", func(t *testing.T) {
		m := NewMemStore()
		require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Male, Occupant: "a",
		}))
		assert.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 2, Gender: model.Male, Occupant: "b",
		}))
	})
}

func TestMemStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	for _, n := range []int{5, 1, 3} {
		require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: n, Gender: model.Male, Occupant: "u",
		}))
	}
	rows, err := m.ListAssignments(ctx, model.Male)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{rows[0].SeatNumber, rows[1].SeatNumber, rows[2].SeatNumber})
}

func TestMemStoreFindAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 1, Gender: model.Male, Occupant: "user_a", StudentID: "20250001",
	}))
	require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 1, Gender: model.Female, Occupant: "user_b",
	}))

	found, err := m.FindByStudent(ctx, "20250001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "user_a", found.Occupant)

	missing, err := m.FindByStudent(ctx, "99999999")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byOcc, err := m.FindByOccupant(ctx, "user_b")
	require.NoError(t, err)
	require.NotNil(t, byOcc)
	assert.Equal(t, model.Female, byOcc.Gender)

	n, err := m.DeleteByOccupant(ctx, "user_a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = m.DeleteByOccupant(ctx, "user_a")
	require.NoError(t, err)
	assert.Zero(t, n, "second delete is a no-op")
}

func TestMemStoreResetAndState(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 1, Gender: model.Male, Occupant: "u",
	}))

	_, err := m.GetSystemState(ctx)
	assert.ErrorIs(t, err, ErrStateNotFound)

	ts := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, m.ResetAll(ctx, model.SystemState{ResetTimestamp: ts, ResetID: "reset_t"}))

	rows, _ := m.ListAssignments(ctx, model.Male)
	assert.Empty(t, rows)

	state, err := m.GetSystemState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.ID, "state row is a singleton")
	assert.Equal(t, "reset_t", state.ResetID)
	assert.True(t, ts.Equal(state.ResetTimestamp))
}

func TestNoopStore(t *testing.T) {
	ctx := context.Background()
	n := NewNoopStore()

	rows, err := n.ListAssignments(ctx, model.Male)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	err = n.InsertAssignment(ctx, &model.SeatAssignment{SeatNumber: 1, Gender: model.Male})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = n.DeleteByOccupant(ctx, "u")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = n.GetSystemState(ctx)
	assert.ErrorIs(t, err, ErrStateNotFound)
}
