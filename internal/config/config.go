package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file looked up in the working directory.
const DefaultConfigPath = "sortbench.yaml"

// Config holds all sortbench configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Results and diagnostics log files
	Logs LogsConfig `yaml:"logs"`

	// Operational logging
	Logging LoggingConfig `yaml:"logging"`

	// Input generation
	Generator GeneratorConfig `yaml:"generator"`

	// Size sweep limits
	Sweep SweepConfig `yaml:"sweep"`

	// Results database
	Store StoreConfig `yaml:"store"`

	// Prometheus textfile output
	Metrics MetricsConfig `yaml:"metrics"`

	// Interpreted candidate sorts
	Scripts ScriptsConfig `yaml:"scripts"`

	// Suite watching
	Watch WatchConfig `yaml:"watch"`
}

// GeneratorConfig configures the random source.
type GeneratorConfig struct {
	// Seed 0 seeds from the wall clock.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "sortbench",
		Version: "1.0.0",

		Logs: LogsConfig{
			Dir:             ".",
			ResultsFile:     "benchmark.txt",
			DiagnosticsFile: "error.txt",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},

		Sweep: SweepConfig{
			MaxLength:        100_000_000,
			ProgressInterval: 1_000_000,
		},

		Store: StoreConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(".sortbench", "results.db"),
		},

		Scripts: ScriptsConfig{
			Timeout: "10s",
			Paths:   map[string]string{},
		},

		Watch: WatchConfig{
			Debounce: "500ms",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SORTBENCH_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Generator.Seed = seed
		}
	}
	if v := os.Getenv("SORTBENCH_LOG_DIR"); v != "" {
		c.Logs.Dir = v
	}
	if v := os.Getenv("SORTBENCH_RESULTS_LOG"); v != "" {
		c.Logs.ResultsFile = v
	}
	if v := os.Getenv("SORTBENCH_DIAGNOSTICS_LOG"); v != "" {
		c.Logs.DiagnosticsFile = v
	}
	if v := os.Getenv("SORTBENCH_DB"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("SORTBENCH_METRICS_FILE"); v != "" {
		c.Metrics.TextfilePath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Logs.ResultsFile == "" {
		return fmt.Errorf("logs.results_file must not be empty")
	}
	if c.Logs.DiagnosticsFile == "" {
		return fmt.Errorf("logs.diagnostics_file must not be empty")
	}
	if c.Logs.ResultsFile == c.Logs.DiagnosticsFile {
		return fmt.Errorf("logs.results_file and logs.diagnostics_file must differ")
	}
	if !c.Logging.IsValidLevel() {
		return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if err := c.ValidateSweepLimits(); err != nil {
		return err
	}
	if c.Store.Enabled && c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path is required when the store is enabled")
	}
	return nil
}

// GetScriptTimeout returns the script load timeout as a duration.
func (c *Config) GetScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Scripts.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetWatchDebounce returns the watch debounce window as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// ResultsPath returns the full path of the results log.
func (c *Config) ResultsPath() string {
	return joinDir(c.Logs.Dir, c.Logs.ResultsFile)
}

// DiagnosticsPath returns the full path of the diagnostics log.
func (c *Config) DiagnosticsPath() string {
	return joinDir(c.Logs.Dir, c.Logs.DiagnosticsFile)
}

func joinDir(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
