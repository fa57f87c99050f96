// Package suite loads declarative benchmark suites from YAML and resolves them
// into harness specifications. A suite names its candidates; the names are
// looked up in a sorts.Registry, optionally extended with suite-local scripts.
package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sortbench/internal/sorts"
	"sortbench/internal/spec"
)

// DefaultSuiteFile is the suite looked up in the working directory.
const DefaultSuiteFile = "sortbench.suite.yaml"

// Suite is a collection of test and sweep entries.
type Suite struct {
	Version int               `yaml:"version"`
	Scripts map[string]string `yaml:"scripts,omitempty"` // name -> Go source path, relative to the suite file
	Tests   []TestEntry       `yaml:"tests"`
	Sweeps  []SweepEntry      `yaml:"sweeps,omitempty"`

	dir string
}

// TestEntry is one test specification.
type TestEntry struct {
	Name     string `yaml:"name"`
	Sort     string `yaml:"sort"`
	Trials   int    `yaml:"trials"`
	Length   int    `yaml:"length"`
	Min      int    `yaml:"min"`
	Max      int    `yaml:"max"`
	Critical bool   `yaml:"critical,omitempty"`
}

// SweepEntry is one size sweep.
type SweepEntry struct {
	Name      string `yaml:"name"`
	Sort      string `yaml:"sort"`
	Start     int    `yaml:"start"`
	Step      int    `yaml:"step"`
	MaxLength int    `yaml:"max_length,omitempty"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
	Critical  bool   `yaml:"critical,omitempty"`
}

// Resolved holds the specifications built from a suite.
type Resolved struct {
	Tests  []spec.TestSpec
	Sweeps []spec.SweepSpec
}

// LoadSuite reads a YAML suite file from disk.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes a suite document. Script paths resolve against the working
// directory.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite YAML: %w", err)
	}
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Version != 1 {
		return nil, fmt.Errorf("unsupported suite version: %d", s.Version)
	}
	return &s, nil
}

// ScriptPaths returns the suite scripts with paths made relative to the suite
// file's directory.
func (s *Suite) ScriptPaths() map[string]string {
	out := make(map[string]string, len(s.Scripts))
	for name, p := range s.Scripts {
		if s.dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(s.dir, p)
		}
		out[name] = p
	}
	return out
}

// Resolve loads the suite's scripts into reg and builds validated
// specifications. Entries without a name are named after their position.
func (s *Suite) Resolve(ctx context.Context, reg *sorts.Registry, loader *sorts.ScriptLoader) (*Resolved, error) {
	if len(s.Scripts) > 0 {
		if loader == nil {
			return nil, fmt.Errorf("suite declares scripts but no script loader is configured")
		}
		if err := loader.RegisterScripts(ctx, reg, s.ScriptPaths()); err != nil {
			return nil, err
		}
	}

	out := &Resolved{
		Tests:  make([]spec.TestSpec, 0, len(s.Tests)),
		Sweeps: make([]spec.SweepSpec, 0, len(s.Sweeps)),
	}

	for i, e := range s.Tests {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("test-%d", i+1)
		}
		sorter, err := reg.Lookup(e.Sort)
		if err != nil {
			return nil, fmt.Errorf("test %q: %w", name, err)
		}
		ts := spec.TestSpec{
			Name:     name,
			Sort:     sorter,
			Trials:   e.Trials,
			Length:   e.Length,
			Min:      e.Min,
			Max:      e.Max,
			Critical: e.Critical,
		}
		if err := ts.Validate(); err != nil {
			return nil, err
		}
		out.Tests = append(out.Tests, ts)
	}

	for i, e := range s.Sweeps {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("sweep-%d", i+1)
		}
		sorter, err := reg.Lookup(e.Sort)
		if err != nil {
			return nil, fmt.Errorf("sweep %q: %w", name, err)
		}
		sw := spec.SweepSpec{
			Name:      name,
			Sort:      sorter,
			Start:     e.Start,
			Step:      e.Step,
			MaxLength: e.MaxLength,
			Min:       e.Min,
			Max:       e.Max,
			Critical:  e.Critical,
		}
		if err := sw.Validate(); err != nil {
			return nil, err
		}
		out.Sweeps = append(out.Sweeps, sw)
	}

	return out, nil
}

// Sample returns the suite written by "sortbench init".
func Sample() *Suite {
	return &Suite{
		Version: 1,
		Tests: []TestEntry{
			{Name: "small-critical", Sort: "insertion", Trials: 10, Length: 100, Min: -1000, Max: 1000, Critical: true},
			{Name: "quick-wide", Sort: "quick", Trials: 5, Length: 100000, Min: -1 << 31, Max: 1<<31 - 1},
			{Name: "merge-dups", Sort: "merge", Trials: 5, Length: 50000, Min: 0, Max: 9},
		},
		Sweeps: []SweepEntry{
			{Name: "std-growth", Sort: "std", Start: 2, Step: 1000, MaxLength: 100000, Min: 0, Max: 1000000},
		},
	}
}

// Save writes the suite as YAML.
func (s *Suite) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create suite directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal suite: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write suite: %w", err)
	}
	return nil
}

// DefaultSuitePath returns the canonical suite path for a directory.
func DefaultSuitePath(dir string) string {
	return filepath.Join(dir, DefaultSuiteFile)
}
