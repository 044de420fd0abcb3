package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatmate/seatmate/internal/reset"
)

// AdminHandler serves the password-gated whole-room reset and the legacy
// password lookup endpoint kept for older clients.
type AdminHandler struct {
	Coordinator *reset.Coordinator

	// AdminPassword backs the legacy GET endpoint only.  Authorization
	// for the reset itself is a bcrypt comparison inside the coordinator,
	// so the plain value never participates in the security decision.
	AdminPassword string
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(coord *reset.Coordinator, adminPassword string) *AdminHandler {
	return &AdminHandler{Coordinator: coord, AdminPassword: adminPassword}
}

// ResetAll handles POST /v1/admin/reset.  A wrong password leaves the
// room untouched and answers 401.
func (h *AdminHandler) ResetAll(c echo.Context) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	state, err := h.Coordinator.ResetAll(c.Request().Context(), body.Password)
	if err != nil {
		if errors.Is(err, reset.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reset_id":        state.ResetID,
		"reset_timestamp": state.ResetTimestamp.UTC().Format(time.RFC3339),
	})
}

// GetAdminPassword handles GET /v1/config/admin-password, the endpoint
// older clients use to pre-fill the admin prompt.  Anything but GET is
// 405, and a missing configuration value is a 500 rather than an empty
// password that would then authorize nothing.
func (h *AdminHandler) GetAdminPassword(c echo.Context) error {
	if c.Request().Method != http.MethodGet {
		return c.JSON(http.StatusMethodNotAllowed, echo.Map{"error": "method not allowed"})
	}
	if h.AdminPassword == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "admin password is not configured"})
	}
	return c.JSON(http.StatusOK, echo.Map{"password": h.AdminPassword})
}
