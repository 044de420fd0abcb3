package model

// RoomSnapshot is the authoritative server view returned by the seats
// endpoint and consumed by the client reconciler: both partitions plus
// the system state marker.
type RoomSnapshot struct {
	Male   []SeatAssignment `json:"male"`
	Female []SeatAssignment `json:"female"`
	State  *SystemState     `json:"system_state,omitempty"`
}

// Empty reports whether the server holds no assignments in either
// partition.
func (s RoomSnapshot) Empty() bool {
	return len(s.Male) == 0 && len(s.Female) == 0
}

// Contains reports whether a row exists for the given identity and seat
// number in the given partition.
func (s RoomSnapshot) Contains(g Gender, seatNumber int, occupant string) bool {
	part := s.Male
	if g == Female {
		part = s.Female
	}
	for _, a := range part {
		if a.SeatNumber == seatNumber && a.Occupant == occupant {
			return true
		}
	}
	return false
}
