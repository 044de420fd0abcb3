package repository

import (
	"context"

	"github.com/seatmate/seatmate/internal/model"
)

// NoopStore is the inert SeatStore selected when the backend is
// configured off.  Reads return empty results so the UI degrades
// gracefully; writes fail loudly with ErrStoreUnavailable so a claim is
// never faked as successful.
type NoopStore struct{}

// NewNoopStore returns the no-op implementation.
func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) ListAssignments(context.Context, model.Gender) ([]model.SeatAssignment, error) {
	return []model.SeatAssignment{}, nil
}

func (*NoopStore) InsertAssignment(context.Context, *model.SeatAssignment) error {
	return ErrStoreUnavailable
}

func (*NoopStore) FindByStudent(context.Context, string) (*model.SeatAssignment, error) {
	return nil, nil
}

func (*NoopStore) FindByOccupant(context.Context, string) (*model.SeatAssignment, error) {
	return nil, nil
}

func (*NoopStore) DeleteByOccupant(context.Context, string) (int64, error) {
	return 0, ErrStoreUnavailable
}

func (*NoopStore) ResetAll(context.Context, model.SystemState) error {
	return ErrStoreUnavailable
}

func (*NoopStore) GetSystemState(context.Context) (*model.SystemState, error) {
	return nil, ErrStateNotFound
}

func (*NoopStore) UpsertSystemState(context.Context, model.SystemState) error {
	return ErrStoreUnavailable
}
