// Package reset implements the three reset flows: self-reset, admin
// reset-all and the scheduled daily reset.  All three share one
// primitive (clear rows, bump the system state marker, notify everyone)
// with different guards in front of it.
package reset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/queue"
	"github.com/seatmate/seatmate/internal/repository"
)

// ErrUnauthorized is returned by ResetAll when the supplied secret does
// not match the configured admin secret.  No side effects have occurred
// when this is returned.
var ErrUnauthorized = errors.New("admin authorization failed")

// PublishFunc delivers one envelope to a broadcast sink.  The store
// mutation has already committed by the time sinks run, so failures are
// logged and swallowed: a dead broker must not undo a reset.
type PublishFunc func(ctx context.Context, env queue.Envelope) error

// Coordinator wires the seat store to the broadcast sinks.  The admin
// secret is held only as a bcrypt hash; the cleartext is neither stored
// nor logged.
type Coordinator struct {
	store     repository.SeatStore
	adminHash []byte
	sinks     []PublishFunc
	now       func() time.Time
}

// NewCoordinator builds a Coordinator.  adminHash must be a bcrypt hash
// of the admin secret.
func NewCoordinator(store repository.SeatStore, adminHash []byte, sinks ...PublishFunc) *Coordinator {
	return &Coordinator{store: store, adminHash: adminHash, sinks: sinks, now: time.Now}
}

// ResetMine deletes only the rows held by the given identity, from both
// partitions.  No secret is required and the operation is idempotent:
// deleting already-deleted rows is a no-op.  A seat-changed event is
// broadcast only when rows were actually removed.
func (c *Coordinator) ResetMine(ctx context.Context, identity string) (int64, error) {
	released, err := c.store.DeleteByOccupant(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("reset mine: %w", err)
	}
	if released > 0 {
		c.fanOut(ctx, queue.Envelope{
			Kind: queue.KindSeatChanged,
			SeatChanged: &queue.SeatChangedEvent{
				Op:         "delete",
				Occupant:   identity,
				OccurredAt: c.now().UTC(),
			},
		})
	}
	return released, nil
}

// ResetAll verifies the supplied secret and, on match, performs the
// whole-room reset.  On mismatch it returns ErrUnauthorized with zero
// side effects.  Safe to invoke repeatedly: re-deleting empty partitions
// and re-bumping the marker is harmless.
func (c *Coordinator) ResetAll(ctx context.Context, suppliedSecret string) (*model.SystemState, error) {
	if err := bcrypt.CompareHashAndPassword(c.adminHash, []byte(suppliedSecret)); err != nil {
		return nil, ErrUnauthorized
	}
	return c.resetEverything(ctx)
}

// ScheduledResetAll performs the whole-room reset on behalf of the
// trusted scheduler, which authenticates at the transport layer instead
// of presenting the admin secret.
func (c *Coordinator) ScheduledResetAll(ctx context.Context) (*model.SystemState, error) {
	return c.resetEverything(ctx)
}

func (c *Coordinator) resetEverything(ctx context.Context) (*model.SystemState, error) {
	state := model.SystemState{
		ID:             1,
		ResetTimestamp: c.now().UTC(),
		ResetID:        "reset_" + uuid.NewString(),
		LastUpdated:    c.now().UTC(),
	}
	if err := c.store.ResetAll(ctx, state); err != nil {
		return nil, fmt.Errorf("reset all: %w", err)
	}
	c.fanOut(ctx, queue.Envelope{
		Kind: queue.KindSeatsReset,
		SeatsReset: &queue.SeatsResetEvent{
			Message:   "all-seats-reset",
			Timestamp: state.ResetTimestamp,
			ResetID:   state.ResetID,
		},
	})
	return &state, nil
}

func (c *Coordinator) fanOut(ctx context.Context, env queue.Envelope) {
	for _, publish := range c.sinks {
		if err := publish(ctx, env); err != nil {
			log.Printf("reset: broadcast sink failed: %v", err)
		}
	}
}
