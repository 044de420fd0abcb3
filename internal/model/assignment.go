package model

import "time"

// Gender selects the seat partition an assignment belongs to.  The two
// partitions are stored as disjoint tables (male_seats, female_seats) so
// a seat number can be claimed once per partition.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid reports whether g names a known partition.
func (g Gender) Valid() bool { return g == Male || g == Female }

// SeatAssignment associates a seat number with the client that claimed it.
// At most one assignment exists per (seat number, partition), and at most
// one per student ID when student identification is in use.
//
// Fields:
//  SeatNumber – 1-based seat index within the dense range [1, totalSeats].
//  Gender     – partition the seat belongs to.
//  Occupant   – opaque per-browser client identity that claimed the seat.
//  StudentID  – optional external student identifier (8 digits when set).
//  CreatedAt  – timestamp of the successful claim, UTC.
type SeatAssignment struct {
	SeatNumber int       `json:"seat_number"`
	Gender     Gender    `json:"gender"`
	Occupant   string    `json:"user_id"`
	StudentID  string    `json:"student_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
