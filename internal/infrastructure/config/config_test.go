package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	keys := []string{
		"SHOPSIGHT_APP_ENV",
		"SHOPSIGHT_APP_PORT",
		"SHOPSIGHT_DATABASE_HOST",
		"SHOPSIGHT_DATABASE_PASSWORD",
		"SHOPSIGHT_DATABASE_SSLMODE",
		"SHOPSIGHT_DATABASE_MAX_OPEN_CONNS",
		"SHOPSIGHT_DATABASE_MAX_IDLE_CONNS",
		"SHOPSIGHT_WEBHOOK_SECRET",
		"SHOPSIGHT_WEBHOOK_SIGNATURE_HEADER",
		"SHOPSIGHT_INGESTION_STATUS_PRECEDENCE",
		"SHOPSIGHT_INGESTION_DEDUP_BACKEND",
		"SHOPSIGHT_ARCHIVE_ENABLED",
		"SHOPSIGHT_ARCHIVE_BUCKET",
	}
	original := make(map[string]string, len(keys))
	for _, k := range keys {
		original[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shopsight-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "X-Signature-256", cfg.Webhook.SignatureHeader)
		assert.Equal(t, "X-Event-Topic", cfg.Webhook.TopicHeader)
		assert.Equal(t, "X-Shop-Domain", cfg.Webhook.DomainHeader)
		assert.Equal(t, "X-Webhook-Id", cfg.Webhook.DeliveryIDHeader)
		assert.Equal(t, int64(2<<20), cfg.Webhook.MaxBodySize)
		assert.Equal(t, "financial_first", cfg.Ingestion.StatusPrecedence)
		assert.Equal(t, 25*time.Second, cfg.Ingestion.ProcessingTimeout)
		assert.Equal(t, 1000, cfg.Ingestion.MaxErrorLength)
		assert.Equal(t, "memory", cfg.Ingestion.DedupBackend)
		assert.Equal(t, 48*time.Hour, cfg.Ingestion.DedupTTL)
		assert.False(t, cfg.Archive.Enabled)
		assert.Equal(t, "webhooks", cfg.Archive.Prefix)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSIGHT_APP_PORT", "9090")
		os.Setenv("SHOPSIGHT_WEBHOOK_SECRET", "s3cret")
		os.Setenv("SHOPSIGHT_WEBHOOK_SIGNATURE_HEADER", "X-Shopify-Hmac-Sha256")
		os.Setenv("SHOPSIGHT_INGESTION_STATUS_PRECEDENCE", "fulfillment_first")
		os.Setenv("SHOPSIGHT_INGESTION_DEDUP_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "s3cret", cfg.Webhook.Secret)
		assert.Equal(t, "X-Shopify-Hmac-Sha256", cfg.Webhook.SignatureHeader)
		assert.Equal(t, "fulfillment_first", cfg.Ingestion.StatusPrecedence)
		assert.Equal(t, "redis", cfg.Ingestion.DedupBackend)
	})

	t.Run("rejects unknown status precedence", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSIGHT_INGESTION_STATUS_PRECEDENCE", "whatever")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("archive requires a bucket when enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSIGHT_ARCHIVE_ENABLED", "true")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("SHOPSIGHT_ARCHIVE_BUCKET", "raw-webhooks")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "raw-webhooks", cfg.Archive.Bucket)
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSIGHT_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("SHOPSIGHT_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires webhook secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSIGHT_APP_ENV", "production")
		os.Setenv("SHOPSIGHT_DATABASE_PASSWORD", "pw")
		os.Setenv("SHOPSIGHT_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook.secret")

		os.Setenv("SHOPSIGHT_WEBHOOK_SECRET", "s3cret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "json", cfg.Log.Format)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "p@ss", DBName: "shopsight", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5433/shopsight?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
