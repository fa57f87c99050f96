package config

import "strings"

// LogsConfig locates the append-only harness logs.
type LogsConfig struct {
	Dir             string `yaml:"dir"`
	ResultsFile     string `yaml:"results_file"`     // one "A = (len, ticks)" line per trial
	DiagnosticsFile string `yaml:"diagnostics_file"` // INPUT_DATA/OUTPUT_DATA on failure
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "warning", "error"}

// IsValidLevel reports whether Level is empty or one of ValidLevels.
func (c *LoggingConfig) IsValidLevel() bool {
	if c.Level == "" {
		return true
	}
	for _, l := range ValidLevels {
		if strings.EqualFold(c.Level, l) {
			return true
		}
	}
	return false
}
