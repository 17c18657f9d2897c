package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "SESSION_TTL", "COMPANIONS_CACHE_TTL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.CompanionsTTL)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("NAVIGATOR_IDLE", "3600")
	t.Setenv("TRIP_REMINDER_LEAD", "soon")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.NavigatorIdle)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLead, "invalid values fall back to the default")
}
