package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"ERP_APP_NAME":          os.Getenv("ERP_APP_NAME"),
		"ERP_APP_ENV":           os.Getenv("ERP_APP_ENV"),
		"ERP_APP_PORT":          os.Getenv("ERP_APP_PORT"),
		"ERP_DATABASE_HOST":     os.Getenv("ERP_DATABASE_HOST"),
		"ERP_DATABASE_PASSWORD": os.Getenv("ERP_DATABASE_PASSWORD"),
		"ERP_DATABASE_SSLMODE":  os.Getenv("ERP_DATABASE_SSLMODE"),
		"ERP_LOG_LEVEL":         os.Getenv("ERP_LOG_LEVEL"),
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()
	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ls-erp", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "USD", cfg.Currency.Reference)
		assert.Equal(t, float64(1), cfg.Currency.Rates["USD"])
		assert.Equal(t, time.Hour, cfg.Currency.CacheTTL)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_APP_PORT", "9090")
		os.Setenv("ERP_DATABASE_HOST", "db.internal")
		os.Setenv("ERP_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_APP_ENV", "production")
		os.Setenv("ERP_DATABASE_SSLMODE", "require")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_APP_ENV", "production")
		os.Setenv("ERP_DATABASE_PASSWORD", "secret")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "lserp",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password are escaped.
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
