package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "METRICS_PORT", "STORAGE_BACKEND", "MEDIA_BACKEND", "AUTH_MODE",
	"JWT_SECRET", "FIREBASE_CREDENTIALS_PATH", "FIREBASE_STORAGE_BUCKET", "POSTGRES_CONN_STR",
	"MONGO_URI", "MONGO_DATABASE", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY",
	"MINIO_BUCKET", "MINIO_PUBLIC_URL", "MINIO_USE_SSL", "FEED_PAGE_SIZE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, StorageFirestore, cfg.StorageBackend)
	assert.Equal(t, MediaFirebase, cfg.MediaBackend)
	assert.Equal(t, AuthFirebase, cfg.AuthMode)
	assert.Equal(t, "picfeed", cfg.MongoDatabase)
	assert.Equal(t, 10, cfg.FeedPageSize)
	assert.False(t, cfg.MinioUseSSL)
	assert.True(t, cfg.NeedsFirebase())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("MEDIA_BACKEND", "minio")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MINIO_ACCESS_KEY", "key")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("FEED_PAGE_SIZE", "2")

	cfg := Load()

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 2, cfg.FeedPageSize)
	assert.False(t, cfg.NeedsFirebase())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_PAGE_SIZE", "ten")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.FeedPageSize)
	assert.False(t, cfg.MinioUseSSL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StorageBackend:        StorageMemory,
			MediaBackend:          MediaFirebase,
			AuthMode:              AuthFirebase,
			FirebaseStorageBucket: "bucket",
			FeedPageSize:          10,
		}
	}
	require.NoError(t, valid().Validate())

	for name, mutate := range map[string]func(*Config){
		"unknown storage":     func(c *Config) { c.StorageBackend = "sqlite" },
		"mongo without uris":  func(c *Config) { c.StorageBackend = StorageMongo },
		"firebase no bucket":  func(c *Config) { c.FirebaseStorageBucket = "" },
		"minio no keys":       func(c *Config) { c.MediaBackend = MediaMinio },
		"unknown media":       func(c *Config) { c.MediaBackend = "s3" },
		"jwt without secret":  func(c *Config) { c.AuthMode = AuthJWT },
		"unknown auth":        func(c *Config) { c.AuthMode = "basic" },
		"page size too large": func(c *Config) { c.FeedPageSize = 51 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
