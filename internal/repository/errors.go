// Package repository defines the seat store contract and its
// implementations.  Sentinel errors declared here let higher layers such
// as the allocator and handlers distinguish failure scenarios: a lost
// claim race (ErrSeatTaken) is retried, a duplicate student
// (ErrDuplicateStudent) is not, and an unreachable backend
// (ErrStoreUnavailable) must never be silently swallowed on a write path.
package repository

import "errors"

// ErrSeatTaken is returned by InsertAssignment when another occupant won
// the race for the same seat number in the same partition.  Callers
// should recompute a candidate seat and retry a bounded number of times.
var ErrSeatTaken = errors.New("seat already taken")

// ErrDuplicateStudent is returned when the student ID on the inserted
// assignment already holds a seat in either partition.  Callers must not
// retry; the existing assignment should be surfaced instead.
var ErrDuplicateStudent = errors.New("student already assigned")

// ErrStateNotFound is returned by GetSystemState when the singleton
// system row has not been created yet.
var ErrStateNotFound = errors.New("system state not found")

// ErrStoreUnavailable is returned when the backing store cannot be
// reached or is deliberately disabled (NoopStore).  Read paths may
// degrade to empty results; write paths must surface this error.
var ErrStoreUnavailable = errors.New("seat store unavailable")
