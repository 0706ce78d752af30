package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "museum:rl", cfg.Prefix)
}

func TestLoadRateLimitConfigBadInterval(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "not-a-duration")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 6*time.Second, cfg.RefillInterval)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", " get, head ,,")
	t.Setenv("CACHE_ENABLED", "off")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
}

func TestDatabaseSettings(t *testing.T) {
	c := Config{DBUser: "u", DBPass: "p", DBHost: "db", DBPort: "3307", DBName: "museum"}
	s := c.Database()
	assert.Equal(t, "db", s.Host)
	assert.Equal(t, "3307", s.Port)
	assert.Contains(t, s.DSN(false), "tcp(db:3307)/museum")
}

func TestIsProd(t *testing.T) {
	assert.True(t, Config{Env: "production"}.IsProd())
	assert.False(t, Config{Env: "dev"}.IsProd())
}
