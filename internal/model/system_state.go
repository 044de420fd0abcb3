package model

import "time"

// SystemState is the singleton causality marker for whole-room resets.
// Exactly one row exists (id = 1).  Clients compare ResetTimestamp against
// their locally cached marker to detect resets that happened while they
// were away; delivery order of notifications is never assumed.
type SystemState struct {
	ID             int       `json:"id"`
	ResetTimestamp time.Time `json:"reset_timestamp"`
	ResetID        string    `json:"reset_id"`
	LastUpdated    time.Time `json:"last_updated"`
}

// NewerThan reports whether the state's reset marker is strictly newer
// than the given timestamp.  A zero marker is never newer.
func (s SystemState) NewerThan(t time.Time) bool {
	return !s.ResetTimestamp.IsZero() && s.ResetTimestamp.After(t)
}
