package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldScope/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestHTTPConfig(t *testing.T) {
	cfg := httpConfig(config.HTTP{Timeout: 5 * time.Second, UserAgent: "ua"}, time.Second, map[string]string{"A": "b"})
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.Equal(t, "ua", cfg.UserAgent)
	assert.Equal(t, "b", cfg.Headers["A"])
}
