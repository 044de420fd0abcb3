package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatmate/seatmate/internal/reset"
)

// ScheduledHandler exposes the daily reset to an external cron caller.
// The route sits behind JWT auth; by the time the handler runs the
// bearer token has already been verified.
type ScheduledHandler struct {
	Coordinator *reset.Coordinator
	Timezone    string
}

// NewScheduledHandler constructs a ScheduledHandler.
func NewScheduledHandler(coord *reset.Coordinator, timezone string) *ScheduledHandler {
	return &ScheduledHandler{Coordinator: coord, Timezone: timezone}
}

// DailyReset handles POST /v1/internal/daily-reset.  The response shape
// mirrors what the external scheduler logs: success flag, message and
// the timestamp in the configured classroom timezone.
func (h *ScheduledHandler) DailyReset(c echo.Context) error {
	state, err := h.Coordinator.ScheduledResetAll(c.Request().Context())
	if err != nil {
		log.Printf("scheduled: daily reset failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success":   false,
			"error":     "daily reset failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
	ts := state.ResetTimestamp
	if loc, locErr := time.LoadLocation(h.Timezone); locErr == nil {
		ts = ts.In(loc)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "all seat assignments cleared",
		"timestamp": ts.Format(time.RFC3339),
		"timezone":  h.Timezone,
	})
}
