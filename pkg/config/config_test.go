package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	assert.Equal(t, "https://marine-api.open-meteo.com/v1/marine", cfg.Ingest.OpenMeteoURL)
	assert.Equal(t, 5, cfg.Ingest.ForecastDays)
	assert.True(t, cfg.Audit.Enabled)

	assert.Equal(t, "Cape Town, South Africa", cfg.Pipeline.DefaultLocationName)
	assert.Equal(t, -33.9249, cfg.Pipeline.DefaultLatitude)
	assert.Equal(t, 18.4241, cfg.Pipeline.DefaultLongitude)
	assert.Equal(t, 30, cfg.Pipeline.SessionTTLMinutes)
	assert.Equal(t, 24, cfg.Pipeline.ValidityHours)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MARITIME_SERVER_PORT", "9090")
	t.Setenv("MARITIME_LLM_MODEL", "gpt-4o-mini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}
