package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "API_BASE_URL", "UI_LOCALE", "UI_TIMEZONE",
		"FEEDBACK_TTL", "SESSION_SECRET", "SESSION_IDLE_TIMEOUT", "SESSION_SWEEP_INTERVAL",
		"CORS_ALLOWED_ORIGINS", "LOOKUP_RATE_PER_SEC", "LOOKUP_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "ko-KR", cfg.UI.Locale)
	assert.Equal(t, 2500*time.Millisecond, cfg.UI.FeedbackTTL)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2.0, cfg.Lookup.RatePerSecond)
	assert.Equal(t, 5, cfg.Lookup.Burst)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.IsProduction())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("API_BASE_URL", "https://hris.example.com/api")
	t.Setenv("UI_LOCALE", "en-US")
	t.Setenv("UI_TIMEZONE", "Asia/Seoul")
	t.Setenv("FEEDBACK_TTL", "4s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("LOOKUP_RATE_PER_SEC", "0.5")
	t.Setenv("LOOKUP_BURST", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "https://hris.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "en-US", cfg.UI.Locale)
	assert.Equal(t, 4*time.Second, cfg.UI.FeedbackTTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 0.5, cfg.Lookup.RatePerSecond)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad port", map[string]string{"SESSION_SECRET": "x", "APP_PORT": "http"}},
		{"port out of range", map[string]string{"SESSION_SECRET": "x", "APP_PORT": "70000"}},
		{"bad ttl", map[string]string{"SESSION_SECRET": "x", "FEEDBACK_TTL": "soon"}},
		{"negative ttl", map[string]string{"SESSION_SECRET": "x", "FEEDBACK_TTL": "-1s"}},
		{"relative base url", map[string]string{"SESSION_SECRET": "x", "API_BASE_URL": "/api"}},
		{"bad idle timeout", map[string]string{"SESSION_SECRET": "x", "SESSION_IDLE_TIMEOUT": "forever"}},
		{"zero burst", map[string]string{"SESSION_SECRET": "x", "LOOKUP_BURST": "0"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLocation_Invalid(t *testing.T) {
	cfg := &Config{UI: UIConfig{Timezone: "Mars/Olympus"}}

	_, err := cfg.Location()
	assert.Error(t, err)
}
