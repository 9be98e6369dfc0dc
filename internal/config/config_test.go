package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, "27", cfg.HomeStateCode)
	assert.Equal(t, "MAHARASHTRA", cfg.DefaultStateName)
	assert.Equal(t, "620821", cfg.FallbackHSNCode)
	assert.Equal(t, float64(5), cfg.DefaultRatePercent)
	assert.Equal(t, "GST3.2.2", cfg.PayloadVersion)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\ndefault_gstin: 27TESTGSTIN00000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "27TESTGSTIN00000", cfg.DefaultGSTIN)
	// Unset keys keep their defaults.
	assert.Equal(t, "620821", cfg.FallbackHSNCode)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not: closed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvPortOverride(t *testing.T) {
	t.Setenv("GST_REPORT_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}
