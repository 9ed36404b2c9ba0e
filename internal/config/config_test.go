package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.yaml")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("S3_BUCKET", "billing-files")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "EUR", cfg.Billing.DefaultCurrency)
	assert.Equal(t, 20, cfg.Billing.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.StorageEnabled())
	assert.False(t, cfg.ExtractionEnabled())
	assert.Equal(t, "postgres://postgres:@db.internal:6543/billing?sslmode=disable", cfg.DSN())
}
