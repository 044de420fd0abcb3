package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/seatmate/seatmate/internal/model"
)

// MemStore is an in-memory SeatStore with the same uniqueness semantics
// as the MySQL implementation: one assignment per (seat number,
// partition) and one per student ID across both partitions.  It is used
// by tests and as an explicit single-process fallback.
type MemStore struct {
	mu    sync.Mutex
	seats map[model.Gender]map[int]model.SeatAssignment
	state *model.SystemState
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		seats: map[model.Gender]map[int]model.SeatAssignment{
			model.Male:   {},
			model.Female: {},
		},
	}
}

func (m *MemStore) ListAssignments(_ context.Context, g model.Gender) ([]model.SeatAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SeatAssignment, 0, len(m.seats[g]))
	for _, a := range m.seats[g] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

func (m *MemStore) InsertAssignment(_ context.Context, a *model.SeatAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.StudentID != "" {
		for _, part := range m.seats {
			for _, existing := range part {
				if existing.StudentID == a.StudentID {
					return ErrDuplicateStudent
				}
			}
		}
	}
	if _, taken := m.seats[a.Gender][a.SeatNumber]; taken {
		return ErrSeatTaken
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.seats[a.Gender][a.SeatNumber] = *a
	return nil
}

func (m *MemStore) FindByStudent(_ context.Context, studentID string) (*model.SeatAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, part := range m.seats {
		for _, a := range part {
			if a.StudentID != "" && a.StudentID == studentID {
				found := a
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (m *MemStore) FindByOccupant(_ context.Context, occupant string) (*model.SeatAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, part := range m.seats {
		for _, a := range part {
			if a.Occupant == occupant {
				found := a
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (m *MemStore) DeleteByOccupant(_ context.Context, occupant string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, part := range m.seats {
		for num, a := range part {
			if a.Occupant == occupant {
				delete(part, num)
				n++
			}
		}
	}
	return n, nil
}

func (m *MemStore) ResetAll(_ context.Context, state model.SystemState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seats[model.Male] = map[int]model.SeatAssignment{}
	m.seats[model.Female] = map[int]model.SeatAssignment{}
	state.ID = 1
	m.state = &state
	return nil
}

func (m *MemStore) GetSystemState(_ context.Context) (*model.SystemState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, ErrStateNotFound
	}
	st := *m.state
	return &st, nil
}

func (m *MemStore) UpsertSystemState(_ context.Context, state model.SystemState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state.ID = 1
	m.state = &state
	return nil
}
