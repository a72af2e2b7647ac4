// Package config provides configuration loading and structs for kluster.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Log        LogConfig        `yaml:"log"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Plot       PlotConfig       `yaml:"plot"`
	Server     ServerConfig     `yaml:"server"`
	Watch      WatchConfig      `yaml:"watch"`
}

// LogConfig holds logger settings. When File is set, logs go to a rotating file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// InputConfig points at the dataset file.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig points at the results file (.txt or .xlsx).
type OutputConfig struct {
	Path string `yaml:"path"`
}

// ClusteringConfig holds algorithm parameters. K 0 means "ask".
type ClusteringConfig struct {
	K             int          `yaml:"k"`
	MaxIterations int          `yaml:"max_iterations"`
	Tolerance     float64      `yaml:"tolerance"`
	Seed          int64        `yaml:"seed"`
	Centroids     [][2]float64 `yaml:"centroids"`
}

// InitialCentroids returns the configured centroids as points, or nil.
func (c *ClusteringConfig) InitialCentroids() []models.Point {
	if len(c.Centroids) == 0 {
		return nil
	}
	points := make([]models.Point, len(c.Centroids))
	for i, xy := range c.Centroids {
		points[i] = models.Point{X: xy[0], Y: xy[1]}
	}
	return points
}

// PlotConfig holds scatter plot output settings. An empty Path disables plotting.
type PlotConfig struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Extensions []string `yaml:"extensions"`
	DebounceMS int      `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Input.Path = expandPath(cfg.Input.Path, configDir)
	cfg.Output.Path = expandPath(cfg.Output.Path, configDir)
	cfg.Plot.Path = expandPath(cfg.Plot.Path, configDir)
	cfg.Log.File = expandPath(cfg.Log.File, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every default applied, used when no file exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Validate rejects parameter combinations no run could satisfy.
func (c *Config) Validate() error {
	if c.Clustering.K < 0 {
		return fmt.Errorf("invalid config: clustering.k cannot be negative")
	}
	if n := len(c.Clustering.Centroids); n > 0 && c.Clustering.K != 0 && n != c.Clustering.K {
		return fmt.Errorf("invalid config: clustering.k is %d but %d centroids are listed", c.Clustering.K, n)
	}
	if c.Clustering.MaxIterations < 1 {
		return fmt.Errorf("invalid config: clustering.max_iterations must be at least 1")
	}
	if c.Clustering.Tolerance <= 0 {
		return fmt.Errorf("invalid config: clustering.tolerance must be positive")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid config: unsupported log format %q", c.Log.Format)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath resolves "./" paths and bare relative paths against configDir and
// "~/" paths against the home directory. Absolute and empty paths are unchanged.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	return filepath.Join(configDir, path)
}
