package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP       HTTPConfig
	CRM        SourceConfig
	Payments   SourceConfig
	Matching   MatchingConfig
	Logging    LoggingConfig
	FixtureDir string
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// SourceConfig describes connectivity to one of the two SaaS platforms.
// DashboardURL is the human-facing site used for deep links, distinct from
// the API base URL.
type SourceConfig struct {
	BaseURL      string
	DashboardURL string
	Token        string
	Timeout      time.Duration
	PageLimit    int
}

// MatchingConfig holds the correlation engine's similarity bands.
type MatchingConfig struct {
	NameLinkThreshold      float64
	NameEqualThreshold     float64
	NameUnrelatedThreshold float64
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultSourceTimeout   = 10 * time.Second
	defaultCRMPageLimit    = 100
	defaultPaymentsLimit   = 200

	defaultNameLinkThreshold      = 0.80
	defaultNameEqualThreshold     = 0.90
	defaultNameUnrelatedThreshold = 0.50
)

// Load reads configuration from environment variables, applying defaults.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		CRM: SourceConfig{
			BaseURL:      os.Getenv("CRM_BASE_URL"),
			DashboardURL: os.Getenv("CRM_DASHBOARD_URL"),
			Token:        os.Getenv("CRM_TOKEN"),
			Timeout:      defaultSourceTimeout,
			PageLimit:    parseIntWithDefault("CRM_PAGE_LIMIT", defaultCRMPageLimit),
		},
		Payments: SourceConfig{
			BaseURL:      os.Getenv("PAYMENTS_BASE_URL"),
			DashboardURL: os.Getenv("PAYMENTS_DASHBOARD_URL"),
			Token:        os.Getenv("PAYMENTS_TOKEN"),
			Timeout:      defaultSourceTimeout,
			PageLimit:    parseIntWithDefault("PAYMENTS_PAGE_LIMIT", defaultPaymentsLimit),
		},
		Matching: MatchingConfig{
			NameLinkThreshold:      parseFloatWithDefault("MATCH_NAME_LINK_THRESHOLD", defaultNameLinkThreshold),
			NameEqualThreshold:     parseFloatWithDefault("MATCH_NAME_EQUAL_THRESHOLD", defaultNameEqualThreshold),
			NameUnrelatedThreshold: parseFloatWithDefault("MATCH_NAME_UNRELATED_THRESHOLD", defaultNameUnrelatedThreshold),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Colored:       parseBoolWithDefault("LOG_COLOR", false),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		FixtureDir: os.Getenv("SOURCES_FIXTURE_DIR"),
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	if v := os.Getenv("SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ReadTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("SERVER_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.IdleTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_IDLE_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ShutdownTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("CRM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CRM.Timeout = d
		} else {
			return Config{}, fmt.Errorf("invalid CRM_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("PAYMENTS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Payments.Timeout = d
		} else {
			return Config{}, fmt.Errorf("invalid PAYMENTS_TIMEOUT: %w", err)
		}
	}

	if err := validateMatching(cfg.Matching); err != nil {
		return Config{}, err
	}

	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	return cfg, nil
}

func validateMatching(m MatchingConfig) error {
	for name, value := range map[string]float64{
		"MATCH_NAME_LINK_THRESHOLD":      m.NameLinkThreshold,
		"MATCH_NAME_EQUAL_THRESHOLD":     m.NameEqualThreshold,
		"MATCH_NAME_UNRELATED_THRESHOLD": m.NameUnrelatedThreshold,
	} {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, value)
		}
	}
	if m.NameUnrelatedThreshold >= m.NameEqualThreshold {
		return fmt.Errorf("MATCH_NAME_UNRELATED_THRESHOLD must be below MATCH_NAME_EQUAL_THRESHOLD")
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
