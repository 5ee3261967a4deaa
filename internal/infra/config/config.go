package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration loaded from environment
// variables.
type Config struct {
	Env              string
	HTTPAddr         string
	Store            string
	MongoURI         string
	MongoDB          string
	KafkaBrokers     []string
	KafkaTopicPrefix string
	MailEndpoint     string
	MailTimeout      time.Duration
	PreviewSuffix    string
	DefaultTenant    string
	HoldOnRequest    bool
}

// Load parses configuration from the current environment. STORE selects the
// persistence backend: "mongo" (default) or "memory" for local runs without
// a database.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		Store:            strings.ToLower(getEnv("STORE", "mongo")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "fleetbook"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		MailEndpoint:     os.Getenv("MAIL_ENDPOINT"),
		PreviewSuffix:    getEnv("PREVIEW_DOMAIN_SUFFIX", ".vercel.app"),
		DefaultTenant:    getEnv("DEFAULT_TENANT", "default"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	mailTimeout, err := parseDurationEnv("MAIL_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.MailTimeout = mailTimeout

	hold, err := parseBoolEnv("HOLD_ON_REQUEST", false)
	if err != nil {
		return Config{}, err
	}
	cfg.HoldOnRequest = hold

	switch cfg.Store {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required with STORE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE %q", cfg.Store)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
