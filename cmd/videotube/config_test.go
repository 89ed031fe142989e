package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	assert.Equal(t, "localhost:8000", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "localhost:9000", cfg.MinioEndpoint)
	assert.Equal(t, "videotube-media", cfg.MinioBucket)
	assert.Equal(t, "http://localhost:9000", cfg.MediaBaseURL)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.AccessSecret)
	assert.Empty(t, cfg.RefreshSecret)
}

func TestConfig_LoadEnv(t *testing.T) {
	t.Parallel()

	t.Run("set values are loaded", func(t *testing.T) {
		t.Parallel()
		env := map[string]string{
			"LISTEN_ADDR":          "0.0.0.0:9090",
			"DATABASE_URI":         "postgres://db",
			"ACCESS_TOKEN_SECRET":  "access",
			"REFRESH_TOKEN_SECRET": "refresh",
			"ACCESS_TOKEN_TTL":     "30m",
			"REFRESH_TOKEN_TTL":    "48h",
			"MINIO_ENDPOINT":       "minio:9000",
			"MINIO_ACCESS_KEY":     "key",
			"MINIO_SECRET_KEY":     "secret",
			"MINIO_BUCKET":         "media",
			"MINIO_USE_SSL":        "true",
			"MEDIA_BASE_URL":       "https://cdn.example.com",
			"LOG_LEVEL":            "debug",
			"ENVIRONMENT":          "dev",
		}

		cfg := NewConfig()
		cfg.LoadEnv(func(key string) string { return env[key] })

		assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "access", cfg.AccessSecret)
		assert.Equal(t, "refresh", cfg.RefreshSecret)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
		assert.Equal(t, "minio:9000", cfg.MinioEndpoint)
		assert.Equal(t, "key", cfg.MinioAccessKey)
		assert.Equal(t, "secret", cfg.MinioSecretKey)
		assert.Equal(t, "media", cfg.MinioBucket)
		assert.True(t, cfg.MinioUseSSL)
		assert.Equal(t, "https://cdn.example.com", cfg.MediaBaseURL)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "dev", cfg.Environment)
	})

	t.Run("empty env keeps defaults", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.LoadEnv(func(string) string { return "" })

		assert.Equal(t, *NewConfig(), *cfg)
	})

	t.Run("bad durations are ignored", func(t *testing.T) {
		t.Parallel()
		env := map[string]string{
			"ACCESS_TOKEN_TTL":  "not-a-duration",
			"REFRESH_TOKEN_TTL": "-1h",
		}

		cfg := NewConfig()
		cfg.LoadEnv(func(key string) string { return env[key] })

		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	})
}

func TestConfig_ParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("long flags", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		err := cfg.ParseFlags([]string{
			"--address", "0.0.0.0:9090",
			"--database", "postgres://db",
			"--access-secret", "access",
			"--refresh-secret", "refresh",
			"--access-ttl", "5m",
			"--minio-endpoint", "minio:9000",
			"--environment", "dev",
		})

		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "access", cfg.AccessSecret)
		assert.Equal(t, "refresh", cfg.RefreshSecret)
		assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, "minio:9000", cfg.MinioEndpoint)
		assert.Equal(t, "dev", cfg.Environment)
	})

	t.Run("short flags", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		err := cfg.ParseFlags([]string{
			"-a", "0.0.0.0:9090",
			"-d", "postgres://db",
			"-m", "minio:9000",
			"-l", "debug",
			"-e", "dev",
		})

		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "minio:9000", cfg.MinioEndpoint)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "dev", cfg.Environment)
	})

	t.Run("unknown flag fails", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		err := cfg.ParseFlags([]string{"--definitely-unknown", "x"})

		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.DatabaseDSN = "postgres://db"
		cfg.AccessSecret = "access"
		cfg.RefreshSecret = "refresh"
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid().Validate())
	})

	t.Run("missing database DSN", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.DatabaseDSN = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("missing secrets", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.AccessSecret = ""
		require.Error(t, cfg.Validate())

		cfg = valid()
		cfg.RefreshSecret = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("shared secret is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.RefreshSecret = cfg.AccessSecret
		require.Error(t, cfg.Validate())
	})
}
