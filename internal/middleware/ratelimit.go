package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/seatmate/seatmate/internal/config"
)

// RateLimit returns a fixed-window limiter keyed by client identity
// (falling back to the remote IP) backed by Redis.  With a nil client or
// a disabled config the middleware is a pass-through, so a Redis outage
// degrades to "no throttling" instead of blocking claims.
func RateLimit(rdb *redis.Client, cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || !cfg.Enabled {
				return next(c)
			}
			// Millisecond resolution keeps the division safe for
			// sub-second windows.
			window := cfg.Window.Milliseconds()
			if window < 1 {
				window = 1
			}
			key := fmt.Sprintf("%s:%s:%d",
				cfg.Prefix, clientKey(c), time.Now().UnixMilli()/window)
			ctx := c.Request().Context()
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Limiter failure must not take the endpoint down.
				log.Printf("ratelimit: redis incr failed: %v", err)
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}

// clientKey prefers the caller-supplied client identity so one impatient
// client cannot starve a NAT'd classroom sharing an IP.  Reading the
// JSON body here would consume it, so the identity travels in a header.
func clientKey(c echo.Context) string {
	if id := c.Request().Header.Get("X-Client-ID"); id != "" {
		return id
	}
	return c.RealIP()
}
