// Package queue defines the event payloads exchanged over the broadcast
// channel and the RabbitMQ publisher/consumer that fan them out to every
// connected client process.
package queue

import "time"

// Event kinds carried in the envelope.
const (
	KindSeatChanged = "seat-changed"
	KindSeatsReset  = "seats-reset"
)

// SeatChangedEvent is published after a row-level change in one of the
// seat partitions: a successful claim (op "insert") or a self-reset
// (op "delete").  Consumers refresh their view of the occupied set.
type SeatChangedEvent struct {
	Gender     string    `json:"gender"`
	Op         string    `json:"op"`
	SeatNumber int       `json:"seat_number,omitempty"`
	Occupant   string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SeatsResetEvent is the explicit out-of-band reset broadcast, distinct
// from row-level changes.  Every client that receives it persists the
// new reset marker, clears its local cache (identity excepted) and
// reloads its view.  Clients order resets by Timestamp, not by delivery.
type SeatsResetEvent struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ResetID   string    `json:"reset_id"`
}

// Envelope wraps one event for the wire.  Exactly one payload field is
// set, selected by Kind.  Origin identifies the publishing process so a
// server instance can recognize its own fanout copy coming back.
type Envelope struct {
	Kind        string            `json:"kind"`
	Origin      string            `json:"origin,omitempty"`
	SeatChanged *SeatChangedEvent `json:"seat_changed,omitempty"`
	SeatsReset  *SeatsResetEvent  `json:"seats_reset,omitempty"`
}
