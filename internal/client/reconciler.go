package client

import (
	"time"

	"github.com/seatmate/seatmate/internal/model"
)

// Action is the reconciler's verdict on the local cache.
type Action int

const (
	// ActionKeep leaves the cache as is; the occupied-seats view may
	// still be refreshed from the snapshot.
	ActionKeep Action = iota

	// ActionClearStale clears the cache because the server no longer
	// holds (or never held) this client's seat.
	ActionClearStale

	// ActionClearReset clears the cache because a newer reset happened
	// while this client was away; the new marker must be adopted.
	ActionClearReset
)

// Decision carries the action and, for ActionClearReset, the reset
// marker the cache must adopt.
type Decision struct {
	Action    Action
	NewMarker time.Time
}

// Reconcile compares the authoritative server snapshot against the local
// cache and decides whether the cache is stale.  It runs after every
// full reload of server state: on startup and after every received
// notification.
//
// Clearing never destroys the client identity; callers apply a clear via
// LocalStore.ClearCache, which preserves it by construction.
func Reconcile(snapshot model.RoomSnapshot, entry CacheEntry) Decision {
	// A reset that happened behind this client's back trumps everything:
	// the server marker is strictly newer than the last one we saw.
	if snapshot.State != nil && snapshot.State.NewerThan(entry.LastResetTimestamp) {
		return Decision{Action: ActionClearReset, NewMarker: snapshot.State.ResetTimestamp}
	}
	if entry.MyAssignment == nil {
		return Decision{Action: ActionKeep}
	}
	// Server has nothing at all but we remember a seat: the room was
	// wiped while we were away.
	if snapshot.Empty() {
		return Decision{Action: ActionClearStale}
	}
	// Server has rows, but none matching our (identity, seat) pair: our
	// seat was released or reassigned.
	mine := entry.MyAssignment
	if !snapshot.Contains(mine.Gender, mine.SeatNumber, entry.ClientID) {
		return Decision{Action: ActionClearStale}
	}
	return Decision{Action: ActionKeep}
}
