package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "consignment-backend", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), cfg.Migration.CutoffDate)
	assert.Equal(t, "20250012", cfg.Migration.ExemptLegacyCode)
	assert.Equal(t, time.Date(2022, 8, 31, 0, 0, 0, 0, time.UTC), cfg.Migration.PaidFallbackDate)
	assert.Equal(t, 100, cfg.Migration.CheckpointRows)
	assert.Equal(t, 30*time.Second, cfg.Images.HTTPTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONSIGNMENT_DATABASE_DRIVER", "sqlite")
	t.Setenv("CONSIGNMENT_MIGRATION_EXEMPT_LEGACY_CODE", "20990001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "20990001", cfg.Migration.ExemptLegacyCode)
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.Driver = "mysql"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 50
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a password for postgres", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.SSLMode = "require"
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.local", Port: 5432,
		User: "app", Password: "p@ss/word",
		DBName: "consignment", SSLMode: "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.local:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word")
}
