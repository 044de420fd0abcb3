package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/seatmate/seatmate/internal/config"
	"github.com/seatmate/seatmate/internal/handler"
	"github.com/seatmate/seatmate/internal/middleware"
)

// Handlers bundles everything the route table needs.  main wires it up
// once; the router stays free of construction logic.
type Handlers struct {
	Seats     *handler.SeatHandler
	Admin     *handler.AdminHandler
	Scheduled *handler.ScheduledHandler
	Events    *handler.EventsHandler
}

// RegisterRoutes registers non-authenticated routes on the provided Echo
// instance.  The health check endpoint can be used by load balancers or
// monitoring systems to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterSeats registers the seat map endpoints under /v1.  The claim
// endpoint is rate limited per client identity so a stuck retry loop in
// one browser cannot hammer the allocator.
func RegisterSeats(e *echo.Echo, h *handler.SeatHandler, rdb *redis.Client, rl config.RateLimitConfig) {
	g := e.Group("/v1/seats")
	// Full snapshot of both partitions plus the reset marker.
	g.GET("", h.GetSnapshot)
	// Claim the lowest free seat for a gender.
	g.POST("/claim", h.ClaimSeat, middleware.RateLimit(rdb, rl))
	// Release whatever seats the calling client holds.
	g.DELETE("/mine", h.ResetMine)
}

// RegisterAdmin registers the password-gated whole-room reset and the
// legacy password lookup kept for older clients.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler) {
	e.POST("/v1/admin/reset", h.ResetAll)
	e.GET("/v1/config/admin-password", h.GetAdminPassword)
}

// RegisterScheduled registers the daily-reset endpoint behind JWT auth.
// Only the external scheduler holds a token signed with jwtSecret.
func RegisterScheduled(e *echo.Echo, h *handler.ScheduledHandler, jwtSecret string) {
	g := e.Group("/v1/internal")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/daily-reset", h.DailyReset)
}

// RegisterEvents registers the SSE stream.
func RegisterEvents(e *echo.Echo, h *handler.EventsHandler) {
	e.GET("/v1/events", h.Stream)
}

// RegisterAll registers every route in one call.
func RegisterAll(e *echo.Echo, h Handlers, rdb *redis.Client, rl config.RateLimitConfig, jwtSecret string) {
	RegisterRoutes(e)
	RegisterSeats(e, h.Seats, rdb, rl)
	RegisterAdmin(e, h.Admin)
	RegisterScheduled(e, h.Scheduled, jwtSecret)
	RegisterEvents(e, h.Events)
}
