package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "geomodel.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "localities", cfg.Locality.Index)
	assert.Equal(t, 30, cfg.Locality.ValidDays)
	assert.Equal(t, 50.0, cfg.Locality.RadiusKm)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEOMODEL_STORE_DRIVER", "postgres")
	t.Setenv("GEOMODEL_STORE_DATABASE_URL", "postgres://localhost/geomodel")
	t.Setenv("GEOMODEL_LOCALITY_VALID_DAYS", "45")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/geomodel", cfg.Store.DatabaseURL)
	assert.Equal(t, 45, cfg.Locality.ValidDays)
}

func TestInitLogger_RejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Formats(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
}
