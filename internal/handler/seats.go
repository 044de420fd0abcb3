package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatmate/seatmate/internal/allocator"
	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/queue"
	"github.com/seatmate/seatmate/internal/repository"
	"github.com/seatmate/seatmate/internal/reset"
)

// SeatHandler serves the snapshot, claim and self-reset endpoints.  The
// allocator owns the claim policy; the handler only translates its
// sentinel errors into HTTP statuses.
type SeatHandler struct {
	Store       repository.SeatStore
	Allocator   *allocator.Allocator
	Coordinator *reset.Coordinator
	Publish     []reset.PublishFunc
}

// NewSeatHandler constructs a SeatHandler.  All dependencies must be
// non-nil.
func NewSeatHandler(store repository.SeatStore, alloc *allocator.Allocator, coord *reset.Coordinator, sinks ...reset.PublishFunc) *SeatHandler {
	if store == nil || alloc == nil || coord == nil {
		panic("nil dependency passed to NewSeatHandler")
	}
	return &SeatHandler{Store: store, Allocator: alloc, Coordinator: coord, Publish: sinks}
}

// GetSnapshot handles GET /v1/seats.  It returns both partitions and
// the system state marker.  A missing system row is not an error: the
// room simply has never been reset.
func (h *SeatHandler) GetSnapshot(c echo.Context) error {
	ctx := c.Request().Context()
	male, err := h.Store.ListAssignments(ctx, model.Male)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat store unavailable"})
	}
	female, err := h.Store.ListAssignments(ctx, model.Female)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat store unavailable"})
	}
	snap := model.RoomSnapshot{Male: male, Female: female}
	if state, err := h.Store.GetSystemState(ctx); err == nil {
		snap.State = state
	}
	return c.JSON(http.StatusOK, snap)
}

// ClaimSeat handles POST /v1/seats/claim.  The request carries the
// partition, the client identity and an optional 8-digit student ID.
// Exactly one of the documented outcomes is returned: the assigned seat,
// the seat the student already holds, exhaustion, or a loud store failure.
func (h *SeatHandler) ClaimSeat(c echo.Context) error {
	var body struct {
		Gender    string `json:"gender"`
		ClientID  string `json:"client_id"`
		StudentID string `json:"student_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	g := model.Gender(body.Gender)
	if !g.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be male or female"})
	}
	if body.ClientID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
	}
	if body.StudentID != "" && !validStudentID(body.StudentID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id must be 8 digits"})
	}

	ctx := c.Request().Context()
	assignment, err := h.Allocator.Claim(ctx, g, body.ClientID, body.StudentID)
	switch {
	case err == nil:
		h.fanOutClaim(c, assignment)
		return c.JSON(http.StatusCreated, echo.Map{"seat_number": assignment.SeatNumber})
	case errors.Is(err, repository.ErrDuplicateStudent):
		if assignment == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already assigned"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"seat_number":      assignment.SeatNumber,
			"already_assigned": true,
		})
	case errors.Is(err, allocator.ErrNoSeatsAvailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no seats available"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// ResetMine handles DELETE /v1/seats/mine.  Releasing a seat you do not
// hold is a successful no-op, which makes the operation idempotent.
func (h *SeatHandler) ResetMine(c echo.Context) error {
	var body struct {
		ClientID string `json:"client_id"`
	}
	if err := c.Bind(&body); err != nil || body.ClientID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
	}
	released, err := h.Coordinator.ResetMine(c.Request().Context(), body.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat store unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// validStudentID accepts exactly eight ASCII digits.
func validStudentID(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (h *SeatHandler) fanOutClaim(c echo.Context, a *model.SeatAssignment) {
	env := queue.Envelope{
		Kind: queue.KindSeatChanged,
		SeatChanged: &queue.SeatChangedEvent{
			Gender:     string(a.Gender),
			Op:         "insert",
			SeatNumber: a.SeatNumber,
			Occupant:   a.Occupant,
			OccurredAt: time.Now().UTC(),
		},
	}
	ctx := c.Request().Context()
	for _, publish := range h.Publish {
		_ = publish(ctx, env)
	}
}
