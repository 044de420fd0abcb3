package repository

import (
	"context"

	"github.com/seatmate/seatmate/internal/model"
)

// SeatStore is the shared backend abstraction the allocator, reconciler
// and reset coordinator operate against.  It is the single source of
// truth: all mutation goes through it, and conflicting claims are
// serialized by the store's uniqueness constraints, not by client-side
// sequencing.
//
// Implementations are selected explicitly at startup: Store (MySQL) for
// production, MemStore for tests and single-process runs, NoopStore when
// the backend is configured off.
type SeatStore interface {
	// ListAssignments returns every assignment in the given partition,
	// ordered by seat number.
	ListAssignments(ctx context.Context, g model.Gender) ([]model.SeatAssignment, error)

	// InsertAssignment claims a seat.  It returns ErrSeatTaken when the
	// (seat number, partition) pair is already occupied and
	// ErrDuplicateStudent when the student ID already holds a seat in
	// either partition.
	InsertAssignment(ctx context.Context, a *model.SeatAssignment) error

	// FindByStudent returns the assignment held by the given student ID,
	// searching both partitions, or nil when none exists.
	FindByStudent(ctx context.Context, studentID string) (*model.SeatAssignment, error)

	// FindByOccupant returns the assignment held by the given client
	// identity, searching both partitions, or nil when none exists.
	FindByOccupant(ctx context.Context, occupant string) (*model.SeatAssignment, error)

	// DeleteByOccupant removes every row belonging to the given client
	// identity from both partitions and reports how many were removed.
	// Deleting an occupant with no rows is a no-op.
	DeleteByOccupant(ctx context.Context, occupant string) (int64, error)

	// ResetAll empties both partitions and replaces the system state row
	// in a single transaction.
	ResetAll(ctx context.Context, state model.SystemState) error

	// GetSystemState returns the singleton system row, or ErrStateNotFound.
	GetSystemState(ctx context.Context) (*model.SystemState, error)

	// UpsertSystemState updates the singleton system row, inserting it
	// when it does not exist yet.
	UpsertSystemState(ctx context.Context, state model.SystemState) error
}
