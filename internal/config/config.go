package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Region source selection.
const (
	RegionSourcePostgres = "postgres"
	RegionSourceGADM     = "gadm"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatabaseURL string

	// RegionSource selects where the canonical region list comes from: the
	// regions table in Postgres, or the GADM feature collections directly.
	RegionSource string
	GADMBase     string
	GADMCountry  string
	GADMTimeout  time.Duration
	GADMCacheTTL time.Duration

	// Kafka publishing is optional; enabled when brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// SnapshotByDay collapses intra-day scrape timestamps into one snapshot.
	SnapshotByDay bool
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file is honored when present, matching local development
// workflows.
func Load() (*Config, error) {
	_ = godotenv.Load() // absence of .env is not an error

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	gadmTimeout, err := parseDuration("GADM_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	gadmCacheTTL, err := parseDuration("GADM_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RegionSource: envOrDefault("REGION_SOURCE", RegionSourceGADM),
		GADMBase:     envOrDefault("GADM_BASE", "https://geodata.ucdavis.edu/gadm/gadm4.1/json"),
		GADMCountry:  envOrDefault("GADM_COUNTRY", "PRT"),
		GADMTimeout:  gadmTimeout,
		GADMCacheTTL: gadmCacheTTL,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "price-map-tables"),

		SnapshotByDay: envBool("SNAPSHOT_BY_DAY", true),
	}

	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	switch cfg.RegionSource {
	case RegionSourcePostgres, RegionSourceGADM:
	default:
		return nil, fmt.Errorf("REGION_SOURCE must be %q or %q", RegionSourcePostgres, RegionSourceGADM)
	}
	if cfg.RegionSource == RegionSourceGADM && cfg.GADMBase == "" {
		return nil, errors.New("GADM_BASE is required when REGION_SOURCE is gadm")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return fallback
	}
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
