package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Check server defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.Mode)
		assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())

		// Check moderation service defaults
		assert.Equal(t, "http://localhost:8000", cfg.Service.BaseURL)
		assert.Equal(t, 60*time.Second, cfg.Service.Deadline)

		// Check database defaults
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "checker", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		// Check redis defaults
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, 20, cfg.Redis.RecentLimit)

		// Check log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("reads from environment variables", func(t *testing.T) {
		t.Setenv("CHECKER_SERVER_PORT", "9090")
		t.Setenv("CHECKER_SERVICE_BASE_URL", "https://moderation.example.com/")
		t.Setenv("CHECKER_SERVICE_DEADLINE", "15s")
		t.Setenv("CHECKER_LOG_LEVEL", "debug")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "https://moderation.example.com", cfg.Service.BaseURL)
		assert.Equal(t, 15*time.Second, cfg.Service.Deadline)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("falls back to default deadline when non-positive", func(t *testing.T) {
		t.Setenv("CHECKER_SERVICE_DEADLINE", "0s")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, DefaultDeadline, cfg.Service.Deadline)
	})
}
