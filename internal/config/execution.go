package config

// ScriptsConfig configures interpreted candidate sorts.
type ScriptsConfig struct {
	// Timeout bounds loading and checking a script, not the sort itself.
	Timeout string `yaml:"timeout"`
	// Paths maps candidate names to Go source files.
	Paths map[string]string `yaml:"paths"`
}

// WatchConfig configures suite file watching.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}
