package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OpenWeatherMap upstream configuration.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherTimeout time.Duration

	// Lookup audit trail configuration (feature-flagged via KAFKA_BROKERS /
	// AUDIT_ENABLED, mirroring how optional integrations are toggled elsewhere).
	AuditEnabled    bool
	KafkaBrokers    []string
	KafkaAuditTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parseDuration("OPENWEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	auditEnabled := len(brokers) > 0
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		auditEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather"),
		OpenWeatherTimeout: upstreamTimeout,

		AuditEnabled:    auditEnabled,
		KafkaBrokers:    brokers,
		KafkaAuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", "weather-lookup-audit"),
	}

	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}
	if cfg.AuditEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
