package config

import "fmt"

// SweepConfig bounds size sweeps.
type SweepConfig struct {
	MaxLength        int `yaml:"max_length"`        // exclusive cap on generated length
	ProgressInterval int `yaml:"progress_interval"` // iterations between progress reports, 0 disables
}

// ValidateSweepLimits checks that sweep limits are within acceptable ranges.
func (c *Config) ValidateSweepLimits() error {
	if c.Sweep.MaxLength < 1 {
		return fmt.Errorf("sweep.max_length must be >= 1")
	}
	if c.Sweep.ProgressInterval < 0 {
		return fmt.Errorf("sweep.progress_interval must be >= 0")
	}
	return nil
}
