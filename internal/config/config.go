// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default identity values reported by the mock driver.
const (
	DefaultDriverVersion = "0.1.0-mock"
	DefaultModelID       = "test-model-123"
)

// Config holds all application configuration.
type Config struct {
	// gRPC listener.
	Address         string
	Port            int
	MaxMessageBytes int

	// Admin HTTP listener. Zero disables it.
	AdminPort    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MCPEnabled   bool

	// Driver identity.
	MockMode      bool
	DriverVersion string
	ModelID       string

	// Trace stream.
	StreamMaxEvents int
	StreamInterval  time.Duration

	// Rate limiting.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel        string
	ShutdownTimeout time.Duration
}

// ListenAddr is the host:port the gRPC server binds.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Load reads configuration from environment variables with sensible defaults.
// Every malformed variable is reported, not just the first.
func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var cfg Config
	var err error

	cfg.Address = envStr("TESTAGENT_ADDRESS", "localhost")
	cfg.Port, err = envInt("TESTAGENT_PORT", 50051)
	collect(err)
	cfg.MaxMessageBytes, err = envInt("TESTAGENT_MAX_MESSAGE_BYTES", 4*1024*1024)
	collect(err)

	cfg.AdminPort, err = envInt("TESTAGENT_ADMIN_PORT", 0)
	collect(err)
	cfg.ReadTimeout, err = envDuration("TESTAGENT_READ_TIMEOUT", 30*time.Second)
	collect(err)
	// Zero: the SSE trace feed outlives any fixed write deadline.
	cfg.WriteTimeout, err = envDuration("TESTAGENT_WRITE_TIMEOUT", 0)
	collect(err)
	cfg.MCPEnabled, err = envBool("TESTAGENT_MCP_ENABLED", true)
	collect(err)

	cfg.MockMode, err = envBool("TESTAGENT_MOCK", true)
	collect(err)
	cfg.DriverVersion = envStr("TESTAGENT_DRIVER_VERSION", DefaultDriverVersion)
	cfg.ModelID = envStr("TESTAGENT_MODEL_ID", DefaultModelID)

	cfg.StreamMaxEvents, err = envInt("TESTAGENT_STREAM_MAX_EVENTS", 10)
	collect(err)
	cfg.StreamInterval, err = envDuration("TESTAGENT_STREAM_INTERVAL", 500*time.Millisecond)
	collect(err)

	cfg.RateLimitEnabled, err = envBool("TESTAGENT_RATE_LIMIT_ENABLED", false)
	collect(err)
	cfg.RateLimitRPS, err = envFloat("TESTAGENT_RATE_LIMIT_RPS", 50)
	collect(err)
	cfg.RateLimitBurst, err = envInt("TESTAGENT_RATE_LIMIT_BURST", 100)
	collect(err)

	cfg.OTELEndpoint = envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.OTELInsecure, err = envBool("TESTAGENT_OTEL_INSECURE", false)
	collect(err)
	cfg.ServiceName = envStr("OTEL_SERVICE_NAME", "testagent")

	cfg.LogLevel = envStr("TESTAGENT_LOG_LEVEL", "info")
	cfg.ShutdownTimeout, err = envDuration("TESTAGENT_SHUTDOWN_TIMEOUT", 10*time.Second)
	collect(err)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that values are within their allowed ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("TESTAGENT_ADDRESS must not be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("TESTAGENT_PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.AdminPort < 0 || c.AdminPort > 65535 {
		errs = append(errs, fmt.Errorf("TESTAGENT_ADMIN_PORT must be between 0 and 65535, got %d", c.AdminPort))
	}
	if c.MaxMessageBytes <= 0 {
		errs = append(errs, errors.New("TESTAGENT_MAX_MESSAGE_BYTES must be positive"))
	}
	if c.StreamMaxEvents <= 0 {
		errs = append(errs, errors.New("TESTAGENT_STREAM_MAX_EVENTS must be positive"))
	}
	if c.StreamInterval < 0 {
		errs = append(errs, errors.New("TESTAGENT_STREAM_INTERVAL must not be negative"))
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		errs = append(errs, errors.New("TESTAGENT_RATE_LIMIT_RPS and TESTAGENT_RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("TESTAGENT_SHUTDOWN_TIMEOUT must be positive"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("TESTAGENT_LOG_LEVEL=%q must be one of debug, info, warn, error", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
