package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KEVSYNC_CONFIG", "API_BASE_URL", "API_ENDPOINT", "RATE_LIMIT_DELAY",
		"ARANGO_HOST", "ARANGO_PORT", "ARANGO_URL", "ARANGO_USER", "ARANGO_PASS",
		"ARANGO_DATABASE", "ARANGO_COLLECTION", "KAFKA_BROKERS", "KAFKA_TOPIC", "MS_PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultFeedPath, cfg.FeedPath)
	assert.Equal(t, 2.0, cfg.RateLimitDelay)
	assert.Equal(t, "http://localhost:8529", cfg.ArangoURL)
	assert.Equal(t, DefaultDatabase, cfg.DatabaseName)
	assert.Equal(t, DefaultCollection, cfg.CollectionName)
	assert.Equal(t, DefaultKafkaTopic, cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://feed.example.com")
	t.Setenv("API_ENDPOINT", "/kev.json")
	t.Setenv("RATE_LIMIT_DELAY", "0.5")
	t.Setenv("ARANGO_HOST", "db.internal")
	t.Setenv("ARANGO_PORT", "9529")
	t.Setenv("ARANGO_DATABASE", "kevtest")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("MS_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://feed.example.com", cfg.BaseURL)
	assert.Equal(t, "/kev.json", cfg.FeedPath)
	assert.Equal(t, 0.5, cfg.RateLimitDelay)
	assert.Equal(t, "http://db.internal:9529", cfg.ArangoURL)
	assert.Equal(t, "kevtest", cfg.DatabaseName)
	assert.Equal(t, "broker1:9092,broker2:9092", cfg.KafkaBrokers)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadArangoURLWinsOverHostPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARANGO_HOST", "ignored")
	t.Setenv("ARANGO_URL", "https://arango.example.com:8529")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://arango.example.com:8529", cfg.ArangoURL)
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "kevsync.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://mirror.example.com\nrate_limit_delay: 1.5\ndatabase: kevstage\n",
	), 0o600))
	t.Setenv("KEVSYNC_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.example.com", cfg.BaseURL)
	assert.Equal(t, 1.5, cfg.RateLimitDelay)
	assert.Equal(t, "kevstage", cfg.DatabaseName)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultFeedPath, cfg.FeedPath)
}

func TestLoadEnvBeatsYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "kevsync.yml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: http://mirror.example.com\n"), 0o600))
	t.Setenv("KEVSYNC_CONFIG", path)
	t.Setenv("API_BASE_URL", "http://direct.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://direct.example.com", cfg.BaseURL)
}

func TestLoadInvalidRateLimitDelay(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_DELAY", "fast")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_DELAY")
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("KEVSYNC_CONFIG", filepath.Join(t.TempDir(), "nope.yml"))

	_, err := Load()
	require.Error(t, err)
}

func TestRateLimitWait(t *testing.T) {
	cfg := Config{RateLimitDelay: 2.0}
	assert.Equal(t, 2*time.Second, cfg.RateLimitWait())

	cfg.RateLimitDelay = 0.25
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitWait())
}
