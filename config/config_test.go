package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.toml")
	contents := `
title = "demo"
frameCount = 120
backgroundColor = [0.1, 0.2, 0.3, 1.0]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Title)
	assert.Equal(t, 120, cfg.FrameCount)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1.0}, cfg.BackgroundColor)
	assert.Equal(t, 60.0, cfg.FrameRate, "unset fields keep DefaultApplicationConfig's values")
}

func TestOpenMissingFileErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestPeriodPrefersExplicitMS(t *testing.T) {
	cfg := ApplicationConfig{PeriodMS: 33, FrameRate: 60}
	assert.Equal(t, 33, cfg.Period())
}

func TestPeriodDerivesFromFrameRate(t *testing.T) {
	cfg := ApplicationConfig{FrameRate: 50}
	assert.Equal(t, 20, cfg.Period())
}

func TestPeriodZeroWhenUnset(t *testing.T) {
	cfg := ApplicationConfig{}
	assert.Equal(t, 0, cfg.Period())
}
