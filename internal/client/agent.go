package client

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/seatmate/seatmate/internal/client/api"
	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/queue"
	"github.com/seatmate/seatmate/internal/repository"
)

// Agent is one running client profile: identity, local cache and the
// reconciliation loop against the server.  It replaces the browser page:
// where the original forced a full page reload after a reset, the agent
// runs an explicit state-reset routine (clear cache, re-fetch, re-run
// reconciliation) so nothing stale survives in memory.
type Agent struct {
	api   *api.Client
	store *LocalStore
	id    string
}

// NewAgent resolves the profile identity and returns a ready agent.
func NewAgent(apiClient *api.Client, store *LocalStore) *Agent {
	id := GetOrCreateIdentity(store)
	apiClient.SetClientID(id)
	return &Agent{
		api:   apiClient,
		store: store,
		id:    id,
	}
}

// Identity returns the stable client identity.
func (a *Agent) Identity() string { return a.id }

// Refresh reloads authoritative state and reconciles the local cache
// against it.  It runs on startup and after every received notification.
// An unreachable server degrades to keeping the current cache: reads
// never destroy local state on their own.
func (a *Agent) Refresh(ctx context.Context) (model.RoomSnapshot, error) {
	snap, err := a.api.Snapshot(ctx)
	if err != nil {
		return model.RoomSnapshot{}, fmt.Errorf("refresh: %w", err)
	}
	entry, err := a.store.LoadCache()
	if err != nil {
		return snap, err
	}
	entry.ClientID = a.id
	switch decision := Reconcile(snap, entry); decision.Action {
	case ActionClearReset:
		log.Printf("client: reset detected (marker %s), clearing local cache", decision.NewMarker.Format("2006-01-02T15:04:05Z07:00"))
		return snap, a.store.ClearCache(a.id, decision.NewMarker)
	case ActionClearStale:
		log.Printf("client: server no longer holds my seat, clearing local cache")
		return snap, a.store.ClearCache(a.id, entry.LastResetTimestamp)
	default:
		return snap, a.store.SaveCache(entry)
	}
}

// HandleEvent processes one envelope from the broadcast channel.  Reset
// events persist the new marker and clear the cache before the view is
// refreshed; row-level changes just trigger a refresh-and-reconcile.
func (a *Agent) HandleEvent(ctx context.Context, env queue.Envelope) {
	if env.Kind == queue.KindSeatsReset && env.SeatsReset != nil {
		entry, err := a.store.LoadCache()
		if err == nil && env.SeatsReset.Timestamp.After(entry.LastResetTimestamp) {
			if err := a.store.ClearCache(a.id, env.SeatsReset.Timestamp); err != nil {
				log.Printf("client: clear cache failed: %v", err)
			}
		}
	}
	if _, err := a.Refresh(ctx); err != nil {
		log.Printf("client: refresh after event failed: %v", err)
	}
}

// Claim asks the server for the lowest free seat and records the result
// in the local cache.  A duplicate student is not an error from the
// user's point of view: the existing seat number is surfaced instead.
func (a *Agent) Claim(ctx context.Context, g model.Gender, studentID string) (int, error) {
	res, err := a.api.Claim(ctx, g, a.id, studentID)
	if err != nil {
		return 0, err
	}
	if res.AlreadyAssigned {
		// The student's earlier claim may live in the other partition
		// under another browser's identity; caching a guessed row here
		// would only be cleared as stale on the next refresh.
		return res.SeatNumber, nil
	}
	entry, loadErr := a.store.LoadCache()
	if loadErr != nil {
		entry = CacheEntry{}
	}
	entry.ClientID = a.id
	entry.MyAssignment = &model.SeatAssignment{
		SeatNumber: res.SeatNumber,
		Gender:     g,
		Occupant:   a.id,
		StudentID:  studentID,
	}
	if err := a.store.SaveCache(entry); err != nil {
		log.Printf("client: cache save failed: %v", err)
	}
	return res.SeatNumber, nil
}

// ResetMine releases this profile's seat on the server and clears the
// local cache, preserving identity and the last seen reset marker.
func (a *Agent) ResetMine(ctx context.Context) (int64, error) {
	released, err := a.api.ResetMine(ctx, a.id)
	if err != nil {
		return 0, err
	}
	entry, _ := a.store.LoadCache()
	return released, a.store.ClearCache(a.id, entry.LastResetTimestamp)
}

// IsUnavailable reports whether the error means the backend could not be
// reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, api.ErrServerUnavailable) || errors.Is(err, repository.ErrStoreUnavailable)
}
