package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := LoadRateLimitConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 10, cfg.Limit)
		assert.Equal(t, 10*time.Second, cfg.Window)
		assert.Equal(t, "rl", cfg.Prefix)
	})

	t.Run("sub-second window is clamped to one second", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_WINDOW", "500ms")
		cfg := LoadRateLimitConfig()
		assert.Equal(t, time.Second, cfg.Window)
	})

	t.Run("unparsable window falls back to the default", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_WINDOW", "often")
		cfg := LoadRateLimitConfig()
		assert.Equal(t, 10*time.Second, cfg.Window)
	})

	t.Run("limit below one is clamped", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PER_WINDOW", "0")
		cfg := LoadRateLimitConfig()
		assert.Equal(t, 1, cfg.Limit)
	})
}
