package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tasks")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.AppURL)
	assert.Equal(t, "l5wu7opeq4h843e19g", cfg.GeneratorTeamID)
	assert.Equal(t, 3*time.Second, cfg.GeneratorInterval)
	assert.Equal(t, int64(10000), cfg.MaxWebSocketConnections)
	assert.Equal(t, 32, cfg.MaxConnectionsPerIP)
}

func TestLoad_ReadsOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tasks")
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GENERATOR_INTERVAL", "10s")
	t.Setenv("MAX_CONNECTIONS_PER_IP", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 10*time.Second, cfg.GeneratorInterval)
	assert.Equal(t, 5, cfg.MaxConnectionsPerIP)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tasks")
	t.Setenv("GENERATOR_INTERVAL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATOR_INTERVAL")
}
