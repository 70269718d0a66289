package config

import (
	"github.com/dosanma1/export-bins/internal/exporter"
)

// Overrides are values given on the command line. Empty fields defer to
// the config file.
type Overrides struct {
	DocsDir string
	Program string
	Pick    string
	Strict  bool
	DryRun  bool
}

// Resolver handles configuration precedence: CLI flags > .export-bins.yaml > defaults
type Resolver struct {
	config    *Config
	overrides Overrides
}

// NewResolver creates a new configuration resolver.
func NewResolver(config *Config, overrides Overrides) *Resolver {
	if config == nil {
		config = Default()
	}
	return &Resolver{config: config, overrides: overrides}
}

// DocsDir resolves the export root.
func (r *Resolver) DocsDir() string {
	if r.overrides.DocsDir != "" {
		return r.overrides.DocsDir
	}
	return r.config.DocsDir
}

// Program resolves the program name.
func (r *Resolver) Program() string {
	if r.overrides.Program != "" {
		return r.overrides.Program
	}
	return r.config.Program
}

// TriggerName resolves the build output watched for in watch mode.
func (r *Resolver) TriggerName() string {
	return r.Program() + exporter.BinSuffix
}

// Pick resolves the fallback pick policy.
func (r *Resolver) Pick() (exporter.PickPolicy, error) {
	if r.overrides.Pick != "" {
		return exporter.ParsePickPolicy(r.overrides.Pick)
	}
	return exporter.ParsePickPolicy(r.config.Pick)
}

// Strict reports whether missing artifacts fail the command. Either source
// can turn it on.
func (r *Resolver) Strict() bool {
	return r.overrides.Strict || r.config.Strict
}

// ExporterConfig builds the exporter configuration from the resolved values.
func (r *Resolver) ExporterConfig() (*exporter.Config, error) {
	pick, err := r.Pick()
	if err != nil {
		return nil, err
	}

	docsDir := r.DocsDir()
	if err := validateDocsDir(docsDir); err != nil {
		return nil, err
	}

	cfg := exporter.DefaultConfig()
	cfg.DocsDir = docsDir
	cfg.Pick = pick
	cfg.DryRun = r.overrides.DryRun
	return cfg, nil
}
