package client

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/seatmate/seatmate/internal/model"
)

var cacheKey = []byte("entry")

// CacheEntry mirrors what this profile believes about its own seat and
// the last reset it has seen.  It is never authoritative: the reconciler
// always defers to a fresh server snapshot when in doubt.
type CacheEntry struct {
	MyAssignment       *model.SeatAssignment `json:"my_assignment,omitempty"`
	LastResetTimestamp time.Time             `json:"last_reset_timestamp"`
	ClientID           string                `json:"client_id"`
}

// LoadCache returns the persisted entry, or a zero entry when none has
// been written yet.
func (ls *LocalStore) LoadCache() (CacheEntry, error) {
	var entry CacheEntry
	err := ls.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketCache).Get(cacheKey)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &entry)
	})
	if err != nil {
		return CacheEntry{}, fmt.Errorf("load cache: %w", err)
	}
	return entry, nil
}

// SaveCache persists the entry.
func (ls *LocalStore) SaveCache(entry CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	err = ls.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCache).Put(cacheKey, data)
	})
	if err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	return nil
}

// ClearCache wipes the cached assignment and adopts the given reset
// marker.  Identity lives in its own bucket and is deliberately left
// untouched: it is the one field that survives all resets.
func (ls *LocalStore) ClearCache(clientID string, marker time.Time) error {
	return ls.SaveCache(CacheEntry{
		LastResetTimestamp: marker,
		ClientID:           clientID,
	})
}
