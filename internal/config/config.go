package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"genomevo/internal/evo"
	"genomevo/internal/immune"
	"genomevo/internal/logging"
	"genomevo/internal/storage"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "GENOMEVO_CONFIG"

type DatasetConfig struct {
	SampleSize int `toml:"sample_size" yaml:"sample_size" json:"sample_size"`
	// Seed for the synthetic reference. Zero reuses the evolution seed.
	Seed int64 `toml:"seed" yaml:"seed" json:"seed"`
}

type StoreConfig struct {
	Kind string `toml:"kind" yaml:"kind" json:"kind"`
	Path string `toml:"path" yaml:"path" json:"path"`
}

// AnomalyConfig controls the crop-monitoring pass run after evolution.
type AnomalyConfig struct {
	Enabled  bool          `toml:"enabled" yaml:"enabled" json:"enabled"`
	PerCrop  int           `toml:"per_crop" yaml:"per_crop" json:"per_crop"`
	Detector immune.Config `toml:"detector" yaml:"detector" json:"detector"`
}

type Config struct {
	Evolution evo.Config     `toml:"evolution" yaml:"evolution" json:"evolution"`
	Dataset   DatasetConfig  `toml:"dataset" yaml:"dataset" json:"dataset"`
	Store     StoreConfig    `toml:"store" yaml:"store" json:"store"`
	Anomaly   AnomalyConfig  `toml:"anomaly" yaml:"anomaly" json:"anomaly"`
	Log       logging.Config `toml:"log" yaml:"log" json:"log"`
}

func Default() Config {
	return Config{
		Evolution: evo.DefaultConfig(),
		Dataset:   DatasetConfig{SampleSize: 10000},
		Store:     StoreConfig{Kind: storage.KindMemory},
		Anomaly:   AnomalyConfig{PerCrop: 300, Detector: immune.DefaultConfig()},
		Log:       logging.DefaultConfig(),
	}
}

// Load reads a TOML or YAML file over the defaults, so keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.Evolution = cfg.Evolution.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by GENOMEVO_CONFIG, or the defaults when the
// variable is unset.
func FromEnv() (Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvPath))
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	if err := c.Evolution.Validate(); err != nil {
		return err
	}
	if c.Dataset.SampleSize < 0 {
		return fmt.Errorf("dataset sample size must be >= 0, got %d", c.Dataset.SampleSize)
	}
	if c.Anomaly.PerCrop < 0 {
		return fmt.Errorf("anomaly readings per crop must be >= 0, got %d", c.Anomaly.PerCrop)
	}
	if c.Anomaly.Enabled {
		if err := c.Anomaly.Detector.WithDefaults().Validate(); err != nil {
			return err
		}
	}
	switch c.Store.Kind {
	case "", storage.KindMemory, storage.KindBadger:
	case storage.KindSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store requires a path")
		}
	default:
		return fmt.Errorf("unsupported store kind %q", c.Store.Kind)
	}
	return nil
}
