package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/config"
)

func TestNewRedisClient_Unreachable(t *testing.T) {
	client, err := NewRedisClient(&config.RedisConfig{Host: "127.0.0.1", Port: 1})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
