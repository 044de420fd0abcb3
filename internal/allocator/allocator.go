// Package allocator implements the seat-assignment policy: strictly the
// lowest free seat number per partition, claimed with an optimistic
// insert that the store's uniqueness constraint arbitrates.  A lost race
// is retried with a freshly recomputed candidate, a bounded number of
// times, so two concurrent claimers always end up on different seats and
// a nearly full room cannot produce a retry storm.
package allocator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/repository"
)

// ErrNoSeatsAvailable is returned when every seat in the requested
// partition is occupied, or when the retry budget is exhausted under
// heavy contention (acceptable degraded behavior, reported the same way).
var ErrNoSeatsAvailable = errors.New("no seats available")

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = 100 * time.Millisecond
)

// Allocator picks and claims seats against a SeatStore.  Capacity is the
// total seat count N; seat numbers form the dense range [1, N].
type Allocator struct {
	store       repository.SeatStore
	capacity    int
	maxAttempts int
	retryDelay  time.Duration
}

// Option tweaks allocator behavior; used by tests to drop the inter-retry
// delay.
type Option func(*Allocator)

// WithMaxAttempts bounds the claim retry loop.
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the pause between claim attempts after a lost race.
func WithRetryDelay(d time.Duration) Option {
	return func(a *Allocator) { a.retryDelay = d }
}

// New returns an Allocator over the given store with capacity seats per
// partition.
func New(store repository.SeatStore, capacity int, opts ...Option) *Allocator {
	a := &Allocator{
		store:       store,
		capacity:    capacity,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FindNextAvailableSeat returns the lowest unoccupied seat number in the
// partition, or ErrNoSeatsAvailable when all seats are claimed.  The
// tie-break is deterministic and order-preserving: never random, never
// load-balanced.
func (a *Allocator) FindNextAvailableSeat(ctx context.Context, g model.Gender) (int, error) {
	assigned, err := a.store.ListAssignments(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("list assignments: %w", err)
	}
	occupied := make(map[int]struct{}, len(assigned))
	for _, s := range assigned {
		occupied[s.SeatNumber] = struct{}{}
	}
	for n := 1; n <= a.capacity; n++ {
		if _, taken := occupied[n]; !taken {
			return n, nil
		}
	}
	return 0, ErrNoSeatsAvailable
}

// Claim assigns the lowest free seat in the partition to the given
// identity.  The check-then-insert sequence is racy on its own, so the
// insert relies on the store's uniqueness constraint to serialize
// conflicting claims: on repository.ErrSeatTaken the candidate is
// recomputed and the attempt repeated, up to the configured bound.
//
// A duplicate student ID is never retried; the existing assignment is
// returned together with repository.ErrDuplicateStudent so callers can
// show the seat the student already holds.  Store failures on this write
// path are surfaced verbatim, never masked as success.
func (a *Allocator) Claim(ctx context.Context, g model.Gender, identity, studentID string) (*model.SeatAssignment, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if attempt > 0 && a.retryDelay > 0 {
			select {
			case <-time.After(a.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		seat, err := a.FindNextAvailableSeat(ctx, g)
		if err != nil {
			return nil, err
		}
		assignment := &model.SeatAssignment{
			SeatNumber: seat,
			Gender:     g,
			Occupant:   identity,
			StudentID:  studentID,
		}
		err = a.store.InsertAssignment(ctx, assignment)
		switch {
		case err == nil:
			return assignment, nil
		case errors.Is(err, repository.ErrSeatTaken):
			continue
		case errors.Is(err, repository.ErrDuplicateStudent):
			existing, findErr := a.store.FindByStudent(ctx, studentID)
			if findErr != nil {
				return nil, fmt.Errorf("lookup existing assignment: %w", findErr)
			}
			return existing, repository.ErrDuplicateStudent
		default:
			return nil, err
		}
	}
	// Retry budget exhausted under contention.  A seat may in truth
	// remain, but reporting exhaustion beats an unbounded retry storm.
	return nil, ErrNoSeatsAvailable
}
