package api

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"PARTICIPANT_TOKEN_SECRET", "PARTICIPANT_TOKEN_TTL_HOURS", "DEFAULT_WASTE_FACTOR", "ANALYTICS_BASE_URL",
		"ENVIRONMENT", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "LOG_LEVEL",
		"POSTGRES_MAX_OPEN_CONNS", "POSTGRES_MAX_IDLE_CONNS", "POSTGRES_CONN_MAX_LIFETIME", "POSTGRES_PING_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalDisabled)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Zero(t, cfg.ParticipantTokenTTL)
	assert.Zero(t, cfg.DefaultWasteFactor)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Zero(t, cfg.PostgresPool)
	assert.Empty(t, cfg.PostgresPool.Options())
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("PARTICIPANT_TOKEN_SECRET", "s3cret")
	t.Setenv("PARTICIPANT_TOKEN_TTL_HOURS", "48")
	t.Setenv("DEFAULT_WASTE_FACTOR", "0.15")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("POSTGRES_CONN_MAX_LIFETIME", "10m")
	t.Setenv("POSTGRES_PING_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.False(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 48*time.Hour, cfg.ParticipantTokenTTL)
	assert.InDelta(t, 0.15, cfg.DefaultWasteFactor, 1e-9)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, PostgresPool{MaxOpenConns: 25, ConnMaxLifetime: 10 * time.Minute, PingTimeout: 2 * time.Second}, cfg.PostgresPool)
	assert.Len(t, cfg.PostgresPool.Options(), 3)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PARTICIPANT_TOKEN_TTL_HOURS": "-1",
		"DEFAULT_WASTE_FACTOR":        "lots",
		"LOG_LEVEL":                   "chatty",
		"POSTGRES_MAX_OPEN_CONNS":     "0",
		"POSTGRES_MAX_IDLE_CONNS":     "few",
		"POSTGRES_CONN_MAX_LIFETIME":  "30",
		"POSTGRES_PING_TIMEOUT":       "-1s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
