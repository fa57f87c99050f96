package config

// StoreConfig configures the SQLite results database.
type StoreConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// MetricsConfig configures Prometheus textfile output.
type MetricsConfig struct {
	// Written after every run when non-empty.
	TextfilePath string `yaml:"textfile_path"`
}
