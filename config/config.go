// Package config builds the connector configuration from the environment,
// with an optional YAML overlay file. All keys have working defaults so the
// connector runs against a local ArangoDB with no setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ortelius/kevsync/util"
	"gopkg.in/yaml.v2"
)

// Defaults for the upstream feed and the store.
const (
	DefaultBaseURL    = "https://www.cisa.gov"
	DefaultFeedPath   = "/sites/default/files/feeds/known_exploited_vulnerabilities.json"
	DefaultDatabase   = "kevcat"
	DefaultCollection = "kev"
	DefaultKafkaTopic = "kev-ingest-events"
)

// Config carries everything the pipeline and the API server need. It is
// constructed once at startup and passed down explicitly; nothing reads
// the environment after Load returns.
type Config struct {
	// Feed
	BaseURL        string  `yaml:"base_url"`
	FeedPath       string  `yaml:"feed_path"`
	RateLimitDelay float64 `yaml:"rate_limit_delay"` // seconds

	// Store
	ArangoURL      string `yaml:"arango_url"`
	ArangoUser     string `yaml:"arango_user"`
	ArangoPass     string `yaml:"arango_pass"`
	DatabaseName   string `yaml:"database"`
	CollectionName string `yaml:"collection"`

	// Events (optional; empty brokers disables publishing)
	KafkaBrokers string `yaml:"kafka_brokers"` // comma-separated
	KafkaTopic   string `yaml:"kafka_topic"`

	// API server
	Port string `yaml:"port"`
}

// RateLimitWait returns the configured rate-limit delay as a duration.
func (c Config) RateLimitWait() time.Duration {
	return time.Duration(c.RateLimitDelay * float64(time.Second))
}

// Load builds the configuration: defaults, then the YAML file named by
// KEVSYNC_CONFIG (if set), then environment variables on top.
func Load() (Config, error) {
	cfg := Config{
		BaseURL:        DefaultBaseURL,
		FeedPath:       DefaultFeedPath,
		RateLimitDelay: 2.0,
		ArangoURL:      "http://localhost:8529",
		ArangoUser:     "root",
		ArangoPass:     "mypassword",
		DatabaseName:   DefaultDatabase,
		CollectionName: DefaultCollection,
		KafkaTopic:     DefaultKafkaTopic,
		Port:           "3000",
	}

	if path := os.Getenv("KEVSYNC_CONFIG"); path != "" {
		content, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.BaseURL = util.GetEnvDefault("API_BASE_URL", cfg.BaseURL)
	cfg.FeedPath = util.GetEnvDefault("API_ENDPOINT", cfg.FeedPath)

	delayStr := util.GetEnvDefault("RATE_LIMIT_DELAY", "")
	if delayStr != "" {
		delay, err := strconv.ParseFloat(delayStr, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid RATE_LIMIT_DELAY %q: %w", delayStr, err)
		}
		cfg.RateLimitDelay = delay
	}

	if _, ok := os.LookupEnv("ARANGO_HOST"); ok {
		dbhost := util.GetEnvDefault("ARANGO_HOST", "localhost")
		dbport := util.GetEnvDefault("ARANGO_PORT", "8529")
		cfg.ArangoURL = "http://" + dbhost + ":" + dbport
	}
	cfg.ArangoURL = util.GetEnvDefault("ARANGO_URL", cfg.ArangoURL)
	cfg.ArangoUser = util.GetEnvDefault("ARANGO_USER", cfg.ArangoUser)
	cfg.ArangoPass = util.GetEnvDefault("ARANGO_PASS", cfg.ArangoPass)
	cfg.DatabaseName = util.GetEnvDefault("ARANGO_DATABASE", cfg.DatabaseName)
	cfg.CollectionName = util.GetEnvDefault("ARANGO_COLLECTION", cfg.CollectionName)

	cfg.KafkaBrokers = util.GetEnvDefault("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = util.GetEnvDefault("KAFKA_TOPIC", cfg.KafkaTopic)

	cfg.Port = util.GetEnvDefault("MS_PORT", cfg.Port)

	return cfg, nil
}
