package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
dayStartHour: 3
health:
  staleDays: 10
priority:
  weights:
    deadline: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DayStartHour)
	assert.Equal(t, 10, cfg.Health.StaleDays)
	assert.Equal(t, 14, cfg.Health.WaitingOnStaleDays)
	assert.Equal(t, 0.5, cfg.Priority.Weights.Deadline)
	assert.Equal(t, 0.30, cfg.Priority.Weights.Importance)
	assert.Equal(t, 90, cfg.Recurrence.RolloverScanDays)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dayStartHour: 30\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dayStartHour")
}

func TestValidate_TierOrdering(t *testing.T) {
	cfg := Default()
	cfg.Priority.Tiers.High = 0.9
	assert.Error(t, cfg.Validate())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.DayStartHour = 4
	cfg.EnergyFilter = EnergyFilterHideMismatched
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPath_Resolution(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)
	t.Setenv(envConfigFile, "")

	p, err := Path("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p)

	t.Setenv(envConfigFile, "/tmp/other.yaml")
	p, err = Path("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.yaml", p)

	p, err = Path("explicit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "explicit.yaml", p)
}
