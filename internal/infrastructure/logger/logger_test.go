package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates logger with JSON format", func(t *testing.T) {
		logger, err := NewLogger(&config.LogConfig{Level: "info", Format: "json"})

		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("creates logger with console format", func(t *testing.T) {
		logger, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"})

		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("defaults to info level for invalid level", func(t *testing.T) {
		logger, err := NewLogger(&config.LogConfig{Level: "invalid", Format: "json"})

		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(-1))
		assert.True(t, logger.Core().Enabled(0))
	})
}

func TestNew(t *testing.T) {
	t.Run("writes JSON entries to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&config.LogConfig{Level: "info", Format: "json"}, &buf)
		require.NoError(t, err)

		logger.Info("submission settled")
		require.NoError(t, logger.Sync())

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "submission settled", entry["message"])
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "checker", entry["logger"])
	})

	t.Run("suppresses entries below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&config.LogConfig{Level: "warn", Format: "console"}, &buf)
		require.NoError(t, err)

		logger.Info("ignored")
		require.NoError(t, logger.Sync())

		assert.Empty(t, buf.String())
	})
}
