package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MATERIALIZE_HORIZON_DAYS", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 20*24*time.Hour, cfg.MaterializeHorizon)
	assert.Equal(t, 365*24*time.Hour, cfg.MaterializeMax)
	assert.Equal(t, "@every 1h", cfg.MaterializeCron)
	assert.False(t, cfg.UseMemoryStore())
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("BOOKING_RATE_PER_MINUTE", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://clinic.example, ,https://admin.example")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.UseMemoryStore())
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 60, cfg.BookingRatePerMinute)
	assert.Equal(t, []string{"https://clinic.example", "https://admin.example"}, cfg.CORSOrigins)
}
