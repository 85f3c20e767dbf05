package api

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	platformpostgres "github.com/Apurer/mealgroup-api/internal/platform/postgres"
)

// DefaultParticipantTokenSecret is used when PARTICIPANT_TOKEN_SECRET is unset. It
// is fine for local runs only; Run warns when it is in effect.
const DefaultParticipantTokenSecret = "thisisnotsecret"

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port                   string
	PostgresDSN            string
	PostgresPool           PostgresPool
	TemporalAddress        string
	TemporalNamespace      string
	TemporalDisabled       bool
	ParticipantTokenSecret string
	ParticipantTokenTTL    time.Duration
	DefaultWasteFactor     float64
	AnalyticsBaseURL       string
	Environment            string
	OTLPEndpoint           string
	OTLPInsecure           bool
	LogLevel               slog.Level
}

// PostgresPool tunes the connection pool. Zero values keep the pool defaults.
type PostgresPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
// A .env file in the working directory is loaded first; real environment variables win.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                   envDefault("PORT", "8080"),
		PostgresDSN:            strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:        envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:      envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:       isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		ParticipantTokenSecret: envDefault("PARTICIPANT_TOKEN_SECRET", DefaultParticipantTokenSecret),
		AnalyticsBaseURL:       strings.TrimSpace(os.Getenv("ANALYTICS_BASE_URL")),
		Environment:            envDefault("ENVIRONMENT", "development"),
		OTLPEndpoint:           strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:           isTruthy(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")),
	}
	if raw := strings.TrimSpace(os.Getenv("PARTICIPANT_TOKEN_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 0 {
			return Config{}, fmt.Errorf("PARTICIPANT_TOKEN_TTL_HOURS must be a non-negative integer")
		}
		cfg.ParticipantTokenTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_WASTE_FACTOR")); raw != "" {
		factor, err := strconv.ParseFloat(raw, 64)
		if err != nil || factor < 0 {
			return Config{}, fmt.Errorf("DEFAULT_WASTE_FACTOR must be a non-negative number")
		}
		cfg.DefaultWasteFactor = factor
	}
	var err error
	if cfg.PostgresPool.MaxOpenConns, err = envCount("POSTGRES_MAX_OPEN_CONNS"); err != nil {
		return Config{}, err
	}
	if cfg.PostgresPool.MaxIdleConns, err = envCount("POSTGRES_MAX_IDLE_CONNS"); err != nil {
		return Config{}, err
	}
	if cfg.PostgresPool.ConnMaxLifetime, err = envDuration("POSTGRES_CONN_MAX_LIFETIME"); err != nil {
		return Config{}, err
	}
	if cfg.PostgresPool.PingTimeout, err = envDuration("POSTGRES_PING_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}

// UsesDefaultSecret reports whether tokens are signed with the built-in development secret.
func (c Config) UsesDefaultSecret() bool {
	return c.ParticipantTokenSecret == DefaultParticipantTokenSecret
}

// Options converts the configured overrides into pool options.
func (p PostgresPool) Options() []platformpostgres.Option {
	var opts []platformpostgres.Option
	if p.MaxOpenConns > 0 {
		opts = append(opts, platformpostgres.WithMaxOpenConns(p.MaxOpenConns))
	}
	if p.MaxIdleConns > 0 {
		opts = append(opts, platformpostgres.WithMaxIdleConns(p.MaxIdleConns))
	}
	if p.ConnMaxLifetime > 0 {
		opts = append(opts, platformpostgres.WithConnMaxLifetime(p.ConnMaxLifetime))
	}
	if p.PingTimeout > 0 {
		opts = append(opts, platformpostgres.WithPingTimeout(p.PingTimeout))
	}
	return opts
}

func envCount(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envDuration(key string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 30s or 5m", key)
	}
	return d, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
