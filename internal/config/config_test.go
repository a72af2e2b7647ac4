package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kluster/internal/models"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kluster.yaml")
	content := `
input:
  path: "points.csv"
clustering:
  k: 3
  seed: 42
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Clustering.K != 3 || cfg.Clustering.Seed != 42 {
		t.Errorf("unexpected clustering config: %+v", cfg.Clustering)
	}
	if cfg.Input.Path != filepath.Join(dir, "points.csv") {
		t.Errorf("input path = %s, want it relative to the config dir", cfg.Input.Path)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kluster.yaml")
	content := `
output:
  path: "./out/results.xlsx"
plot:
  path: "./out/plot.html"
log:
  file: "/var/log/kluster.log"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "out", "results.xlsx"); cfg.Output.Path != want {
		t.Errorf("output path = %s, want %s", cfg.Output.Path, want)
	}
	if want := filepath.Join(dir, "out", "plot.html"); cfg.Plot.Path != want {
		t.Errorf("plot path = %s, want %s", cfg.Plot.Path, want)
	}
	if cfg.Log.File != "/var/log/kluster.log" {
		t.Errorf("absolute log path should be unchanged: %s", cfg.Log.File)
	}
	if cfg.Log.MaxSizeMB != 100 || cfg.Log.MaxBackups != 3 || cfg.Log.MaxAgeDays != 28 {
		t.Errorf("rotation defaults not applied: %+v", cfg.Log)
	}
}

func TestLoad_centroids(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kluster.yaml")
	content := `
clustering:
  centroids:
    - [0, 0]
    - [10, 0.5]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Clustering.K != 2 {
		t.Errorf("k should default to the centroid count, got %d", cfg.Clustering.K)
	}
	got := cfg.Clustering.InitialCentroids()
	want := []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0.5}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("centroids = %v, want %v", got, want)
	}
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"centroid count mismatch", "clustering:\n  k: 3\n  centroids: [[0, 0]]\n", "centroids"},
		{"negative k", "clustering:\n  k: -1\n", "negative"},
		{"negative max iterations", "clustering:\n  max_iterations: -5\n", "max_iterations"},
		{"bad log format", "log:\n  format: xml\n", "log format"},
		{"bad yaml", "clustering: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kluster.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Input.Path != "kmeans-data.txt" {
		t.Errorf("default input: got %s", cfg.Input.Path)
	}
	if cfg.Output.Path != "kmeans-output.txt" {
		t.Errorf("default output: got %s", cfg.Output.Path)
	}
	if cfg.Clustering.MaxIterations != 100 {
		t.Errorf("default max iterations: got %d", cfg.Clustering.MaxIterations)
	}
	if cfg.Clustering.Tolerance != 1e-4 {
		t.Errorf("default tolerance: got %g", cfg.Clustering.Tolerance)
	}
	if cfg.Clustering.K != 0 {
		t.Errorf("k should stay unset so the user is asked, got %d", cfg.Clustering.K)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("default server: got %+v", cfg.Server)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("default log: got %+v", cfg.Log)
	}
	if cfg.Log.MaxSizeMB != 0 {
		t.Error("rotation settings should stay unset without a log file")
	}
	if len(cfg.Watch.Extensions) != 4 || cfg.Watch.Extensions[3] != ".xlsx" {
		t.Errorf("watch extensions: got %v", cfg.Watch.Extensions)
	}
	if cfg.Watch.DebounceMS != 400 {
		t.Errorf("debounce: got %d", cfg.Watch.DebounceMS)
	}
	if cfg.Plot.Path != "" {
		t.Error("plotting should be off by default")
	}
}

func TestDefault_isValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := Default()
	cfg.Clustering.K = 4
	cfg.Server.Port = 9090
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 || loaded.Clustering.K != 4 {
		t.Errorf("loaded: port %d k %d", loaded.Server.Port, loaded.Clustering.K)
	}
}
