package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "sortbench" {
		t.Errorf("expected Name=sortbench, got %s", cfg.Name)
	}
	if cfg.Logs.ResultsFile != "benchmark.txt" {
		t.Errorf("expected ResultsFile=benchmark.txt, got %s", cfg.Logs.ResultsFile)
	}
	if cfg.Logs.DiagnosticsFile != "error.txt" {
		t.Errorf("expected DiagnosticsFile=error.txt, got %s", cfg.Logs.DiagnosticsFile)
	}
	if cfg.Sweep.MaxLength != 100_000_000 {
		t.Errorf("expected MaxLength=100000000, got %d", cfg.Sweep.MaxLength)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("SORTBENCH_SEED", "")
	t.Setenv("SORTBENCH_DB", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sortbench.yaml")

	cfg := DefaultConfig()
	cfg.Generator.Seed = 1234
	cfg.Sweep.MaxLength = 5000
	cfg.Scripts.Paths["mine"] = "candidates/mine.go"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Generator.Seed != 1234 {
		t.Errorf("expected Seed=1234, got %d", loaded.Generator.Seed)
	}
	if loaded.Sweep.MaxLength != 5000 {
		t.Errorf("expected MaxLength=5000, got %d", loaded.Sweep.MaxLength)
	}
	if loaded.Scripts.Paths["mine"] != "candidates/mine.go" {
		t.Errorf("expected script path to round-trip, got %v", loaded.Scripts.Paths)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logs.ResultsFile != "benchmark.txt" {
		t.Errorf("expected defaults, got %+v", cfg.Logs)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sortbench.yaml")
	content := "generator:\n  seed: 7\nlogs:\n  results_file: out.txt\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generator.Seed != 7 {
		t.Errorf("expected Seed=7, got %d", cfg.Generator.Seed)
	}
	if cfg.Logs.ResultsFile != "out.txt" {
		t.Errorf("expected ResultsFile=out.txt, got %s", cfg.Logs.ResultsFile)
	}
	if cfg.Logs.DiagnosticsFile != "error.txt" {
		t.Errorf("expected default DiagnosticsFile, got %s", cfg.Logs.DiagnosticsFile)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sortbench.yaml")
	if err := os.WriteFile(path, []byte("logs: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty results file", func(c *Config) { c.Logs.ResultsFile = "" }},
		{"same log files", func(c *Config) { c.Logs.DiagnosticsFile = c.Logs.ResultsFile }},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"zero sweep cap", func(c *Config) { c.Sweep.MaxLength = 0 }},
		{"negative progress", func(c *Config) { c.Sweep.ProgressInterval = -1 }},
		{"store without path", func(c *Config) { c.Store.DatabasePath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Store.Enabled = false
	cfg.Store.DatabasePath = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled store should not need a path: %v", err)
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GetScriptTimeout() != 10*time.Second {
		t.Errorf("unexpected script timeout %v", cfg.GetScriptTimeout())
	}
	if cfg.GetWatchDebounce() != 500*time.Millisecond {
		t.Errorf("unexpected debounce %v", cfg.GetWatchDebounce())
	}

	cfg.Scripts.Timeout = "bogus"
	cfg.Watch.Debounce = ""
	if cfg.GetScriptTimeout() != 10*time.Second || cfg.GetWatchDebounce() != 500*time.Millisecond {
		t.Error("invalid durations should fall back to defaults")
	}

	cfg.Logs.Dir = "out"
	if got := cfg.ResultsPath(); got != filepath.Join("out", "benchmark.txt") {
		t.Errorf("ResultsPath = %s", got)
	}
	cfg.Logs.DiagnosticsFile = filepath.Join(t.TempDir(), "err.txt")
	if got := cfg.DiagnosticsPath(); got != cfg.Logs.DiagnosticsFile {
		t.Errorf("absolute diagnostics path should be kept, got %s", got)
	}
}
