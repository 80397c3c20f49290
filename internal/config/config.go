package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// NASA NeoWs feed configuration.
	NEOAPIKey         string
	NEOFeedURL        string
	NEOFeedTimeout    time.Duration
	NEOFeedWindowDays int
	NEOFeedMaxRetries int

	// Simulation event publishing. Disabled when no brokers are configured.
	KafkaBrokers         []string
	KafkaSimulationTopic string
	KafkaEnabled         bool
}

const (
	// The NeoWs feed rejects date ranges longer than seven days.
	maxFeedWindowDays = 7
	maxFeedRetries    = 5
)

// MaxFeedFetchDuration caps one feed fetch including retries and backoff.
// The API server's write timeout is derived from it so a slow upstream
// still gets a JSON error response.
const MaxFeedFetchDuration = 40 * time.Second

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NEO_FEED_TIMEOUT", "10s"))
	if err != nil || feedTimeout <= 0 {
		return nil, errors.New("invalid NEO_FEED_TIMEOUT")
	}
	if feedTimeout > MaxFeedFetchDuration {
		return nil, fmt.Errorf("invalid NEO_FEED_TIMEOUT: must not exceed %s", MaxFeedFetchDuration)
	}

	windowDays, err := parseIntInRange("NEO_FEED_WINDOW_DAYS", 7, 1, maxFeedWindowDays)
	if err != nil {
		return nil, err
	}

	maxRetries, err := parseIntInRange("NEO_FEED_MAX_RETRIES", 2, 0, maxFeedRetries)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if s := os.Getenv("KAFKA_BROKERS"); s != "" {
		brokers = sharedcfg.ParseBrokers(s)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		AllowedOrigins:  parseList(sharedcfg.EnvOrDefault("ALLOWED_ORIGINS", "*")),

		NEOAPIKey:         sharedcfg.EnvOrDefault("NEO_API_KEY", "DEMO_KEY"),
		NEOFeedURL:        sharedcfg.EnvOrDefault("NEO_FEED_URL", "https://api.nasa.gov/neo/rest/v1/feed"),
		NEOFeedTimeout:    feedTimeout,
		NEOFeedWindowDays: windowDays,
		NEOFeedMaxRetries: maxRetries,

		KafkaBrokers:         brokers,
		KafkaSimulationTopic: sharedcfg.EnvOrDefault("KAFKA_SIMULATION_TOPIC", "neo-simulations"),
		KafkaEnabled:         len(brokers) > 0,
	}

	if u, err := url.ParseRequestURI(cfg.NEOFeedURL); err != nil || u.Host == "" {
		return nil, errors.New("invalid NEO_FEED_URL")
	}
	if len(cfg.AllowedOrigins) == 0 {
		return nil, errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	if cfg.KafkaEnabled && cfg.KafkaSimulationTopic == "" {
		return nil, errors.New("KAFKA_SIMULATION_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parseIntInRange(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
