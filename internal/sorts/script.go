package sorts

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"sortbench/internal/spec"
)

// ScriptLoader interprets Go source files that define a candidate sort.
//
// A script is a single file declaring
//
//	func Sort(values []int)
//
// in package main (the clause may be omitted). Only the packages in the
// loader's allow-list may be imported.
type ScriptLoader struct {
	allowedPackages map[string]bool
	logger          *zap.Logger
}

// NewScriptLoader returns a loader restricted to pure computational stdlib
// packages.
func NewScriptLoader(logger *zap.Logger) *ScriptLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptLoader{
		allowedPackages: map[string]bool{
			"sort":           true,
			"slices":         true,
			"cmp":            true,
			"math":           true,
			"math/bits":      true,
			"math/rand":      true,
			"container/heap": true,
			"strings":        true,
			"strconv":        true,
			"fmt":            true,

			// Not allowed: os, os/exec, net, net/http, syscall, unsafe
		},
		logger: logger,
	}
}

// LoadFile reads and interprets path.
func (l *ScriptLoader) LoadFile(ctx context.Context, path string) (spec.Sorter, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := l.Load(ctx, string(code))
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// Load interprets code and returns its Sort function as a Sorter. ctx bounds
// evaluation of the source, not later calls to Sort.
func (l *ScriptLoader) Load(ctx context.Context, code string) (spec.Sorter, error) {
	code = wrapCode(code)
	if err := l.validateImports(code); err != nil {
		return nil, fmt.Errorf("invalid imports: %w", err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}

	if _, err := i.EvalWithContext(ctx, code); err != nil {
		return nil, fmt.Errorf("code evaluation failed: %w", err)
	}

	v, err := i.EvalWithContext(ctx, "main.Sort")
	if err != nil {
		return nil, fmt.Errorf("Sort function not found: %w", err)
	}
	fn, ok := v.Interface().(func([]int))
	if !ok {
		return nil, fmt.Errorf("Sort has incorrect signature (expected: func([]int)), got %s", v.Type())
	}
	l.logger.Debug("Loaded script candidate", zap.Int("bytes", len(code)))
	return spec.SortFunc(fn), nil
}

// RegisterScripts loads every name -> path pair into r.
func (l *ScriptLoader) RegisterScripts(ctx context.Context, r *Registry, scripts map[string]string) error {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s, err := l.LoadFile(ctx, scripts[name])
		if err != nil {
			return fmt.Errorf("sort %q: %w", name, err)
		}
		if err := r.Register(name, s); err != nil {
			return err
		}
		l.logger.Info("Registered script sort", zap.String("name", name), zap.String("path", scripts[name]))
	}
	return nil
}

// validateImports checks that the code only imports allowed packages.
func (l *ScriptLoader) validateImports(code string) error {
	f, err := parser.ParseFile(token.NewFileSet(), "script.go", code, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	var forbidden []string
	for _, imp := range f.Imports {
		pkg, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return fmt.Errorf("bad import path %s: %w", imp.Path.Value, err)
		}
		if !l.allowedPackages[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}

	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports detected: %v (allowed: %v)", forbidden, l.getAllowedPackages())
	}
	return nil
}

// wrapCode prepends a package clause when the script has none.
func wrapCode(code string) string {
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		if strings.HasPrefix(trimmed, "package ") {
			return code
		}
		break
	}
	return "package main\n\n" + code
}

func (l *ScriptLoader) getAllowedPackages() []string {
	pkgs := make([]string, 0, len(l.allowedPackages))
	for pkg := range l.allowedPackages {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}
