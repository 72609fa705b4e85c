// Package config loads the project-level `nova.yaml` manifest: source
// roots, which internal/optimize.Pass stages run, and the diagnostics
// output format the CLI defaults to.
//
// The YAML-struct-tag-plus-defaults shape follows the
// `lexer.Option`/`parser.Option` functional-option pattern in spirit (a
// small typed surface the CLI builds once at startup) but is loaded from
// disk rather than assembled from flags, so it is a plain struct decoded
// with `goccy/go-yaml` rather than an option slice.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/novaforge/nova/internal/optimize"
)

// Format selects how the CLI renders a diagnostics batch.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config is the decoded shape of `nova.yaml`.
type Config struct {
	// SourceRoots lists directories the CLI searches for `.nova` sources
	// when a command is invoked without explicit file arguments.
	SourceRoots []string `yaml:"sourceRoots"`

	// DisabledPasses names optimize.Pass values to turn off, mirroring
	// the WithOptimizationPass-style CLI/API surface.
	DisabledPasses []string `yaml:"disabledPasses"`

	// DiagnosticsFormat is "text" or "json"; empty means FormatText.
	DiagnosticsFormat Format `yaml:"diagnosticsFormat"`
}

// Default returns the zero-config baseline: the current directory as the
// only source root, every optimizer pass enabled, text diagnostics.
func Default() *Config {
	return &Config{
		SourceRoots:       []string{"."},
		DiagnosticsFormat: FormatText,
	}
}

// Load reads and validates `nova.yaml` at path. A missing file is not an
// error: it returns Default(), since a project with no manifest still
// compiles with the baseline configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	cfg.SourceRoots = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if len(cfg.SourceRoots) == 0 {
		cfg.SourceRoots = []string{"."}
	}
	if cfg.DiagnosticsFormat == "" {
		cfg.DiagnosticsFormat = FormatText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects an unknown diagnostics format or optimizer pass name,
// so a typo in `nova.yaml` is reported once at load time rather than
// silently ignored deep in the pipeline.
func (c *Config) Validate() error {
	switch c.DiagnosticsFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("config: unknown diagnosticsFormat %q", c.DiagnosticsFormat)
	}
	for _, name := range c.DisabledPasses {
		if _, ok := passByName[optimize.Pass(name)]; !ok {
			return fmt.Errorf("config: unknown optimizer pass %q", name)
		}
	}
	return nil
}

var passByName = map[optimize.Pass]bool{
	optimize.PassDeadBlockElimination: true,
	optimize.PassLICM:                 true,
	optimize.PassTailCallElimination:  true,
	optimize.PassStrengthReduction:    true,
	optimize.PassLocalCSE:             true,
	optimize.PassPeephole:             true,
	optimize.PassBlockMerging:         true,
}

// OptimizeOptions builds an *optimize.Options with every pass in
// DisabledPasses turned off.
func (c *Config) OptimizeOptions() *optimize.Options {
	opts := optimize.NewOptions()
	for _, name := range c.DisabledPasses {
		opts.Disable(optimize.Pass(name))
	}
	return opts
}
