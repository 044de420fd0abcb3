package config

import (
	"os"
	"time"
)

// RateLimitConfig controls the Redis-backed limiter in front of the
// claim endpoint.  When disabled, or when no Redis client could be
// established, claims pass through unthrottled.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // requests allowed per window and client
	Window  time.Duration // fixed window length
	Prefix  string        // Redis key namespace
}

// LoadRateLimitConfig builds the limiter configuration from the
// environment with defaults sized for a single classroom.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   intenv("RATE_LIMIT_PER_WINDOW", 10),
		Window:  durenv("RATE_LIMIT_WINDOW", 10*time.Second),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	// Redis key expiry is second-granular, so the window never shrinks
	// below one second.
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}

func durenv(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
