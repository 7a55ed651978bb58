package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genomevo/internal/evo"
	"genomevo/internal/immune"
	"genomevo/internal/storage"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 80, cfg.Evolution.PopulationSize)
	assert.Equal(t, 50, cfg.Evolution.Generations)
	assert.Equal(t, 0.02, cfg.Evolution.MutationRate)
	assert.Equal(t, storage.KindMemory, cfg.Store.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Anomaly.Enabled)
	assert.Equal(t, 300, cfg.Anomaly.PerCrop)
	assert.Equal(t, immune.DefaultConfig(), cfg.Anomaly.Detector)
}

func TestLoadAnomalySection(t *testing.T) {
	path := writeFile(t, "anomaly.toml", `
[anomaly]
enabled = true
per_crop = 100

[anomaly.detector]
detectors = 40
affinity_radius = 0.6
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Anomaly.Enabled)
	assert.Equal(t, 100, cfg.Anomaly.PerCrop)
	assert.Equal(t, 40, cfg.Anomaly.Detector.Detectors)
	assert.Equal(t, 0.6, cfg.Anomaly.Detector.AffinityRadius)
	assert.Equal(t, immune.DefaultThreshold, cfg.Anomaly.Detector.Threshold)

	_, err = Load(writeFile(t, "bad_anomaly.yaml", "anomaly:\n  enabled: true\n  detector:\n    threshold: 2\n"))
	require.ErrorIs(t, err, immune.ErrInvalidConfig)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "genomevo.toml", `
[evolution]
population_size = 30
generations = 12
mutation_rate = 0.05
seed = 7

[store]
kind = "badger"

[log]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Evolution.PopulationSize)
	assert.Equal(t, 12, cfg.Evolution.Generations)
	assert.Equal(t, 0.05, cfg.Evolution.MutationRate)
	assert.Equal(t, int64(7), cfg.Evolution.Seed)
	assert.Equal(t, evo.DefaultGenomeLength, cfg.Evolution.GenomeLength)
	assert.Equal(t, 10000, cfg.Dataset.SampleSize)
	assert.Equal(t, storage.KindBadger, cfg.Store.Kind)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "genomevo.yml", `
evolution:
  population_size: 40
  genome_length: 64
  crossover_rate: 0.6
dataset:
  sample_size: 2000
  seed: 99
store:
  kind: sqlite
  path: /tmp/genomevo.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Evolution.PopulationSize)
	assert.Equal(t, 50, cfg.Evolution.Generations)
	assert.Equal(t, 64, cfg.Evolution.GenomeLength)
	assert.Equal(t, 0.6, cfg.Evolution.CrossoverRate)
	assert.Equal(t, 2000, cfg.Dataset.SampleSize)
	assert.Equal(t, int64(99), cfg.Dataset.Seed)
	assert.Equal(t, "/tmp/genomevo.db", cfg.Store.Path)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	_, err := Load(writeFile(t, "bad.toml", "[evolution]\npopulation_size = 0\n"))
	require.ErrorIs(t, err, evo.ErrInvalidConfiguration)

	_, err = Load(writeFile(t, "bad.yaml", "evolution:\n  mutation_rate: 3\n"))
	require.ErrorIs(t, err, evo.ErrInvalidConfiguration)

	_, err = Load(writeFile(t, "config.json", "{}"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "sqlite.toml", "[store]\nkind = \"sqlite\"\n"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "kind.toml", "[store]\nkind = \"postgres\"\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvPath, writeFile(t, "env.toml", "[evolution]\ngenerations = 3\n"))
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Evolution.Generations)
}
