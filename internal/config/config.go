// Package config loads the optional .export-bins.yaml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dosanma1/export-bins/internal/exporter"
)

// FileName is the project configuration file looked up in the project directory.
const FileName = ".export-bins.yaml"

const (
	DefaultProgram  = "firmware"
	DefaultDebounce = 500 * time.Millisecond
)

// Config represents the .export-bins.yaml configuration file.
type Config struct {
	// DocsDir is the export root, relative to the project directory.
	DocsDir string `yaml:"docs_dir"`

	// Program is the build's program name; <program>.bin triggers watch mode.
	Program string `yaml:"program"`

	// Pick resolves ambiguous fallback matches (first|strict).
	Pick string `yaml:"pick"`

	// Strict makes a missing artifact fail the export command.
	Strict bool `yaml:"strict,omitempty"`

	Watch WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Path returns the config file path inside projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// Load reads and parses the config file at path. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateDocsDir(c.DocsDir); err != nil {
		return err
	}

	if c.Program == "" {
		return fmt.Errorf("program is required")
	}
	if strings.ContainsAny(c.Program, `/\`) {
		return fmt.Errorf("program must be a file name, not a path: %s", c.Program)
	}

	if _, err := exporter.ParsePickPolicy(c.Pick); err != nil {
		return err
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	return nil
}

// applyDefaults sets default values for missing fields.
func (c *Config) applyDefaults() {
	if c.DocsDir == "" {
		c.DocsDir = exporter.DefaultDocsDir
	}
	if c.Program == "" {
		c.Program = DefaultProgram
	}
	if c.Pick == "" {
		c.Pick = string(exporter.PickFirst)
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

// validateDocsDir rejects docs directories that would resolve outside the
// project directory. It guards both the file value and the --docs-dir flag.
func validateDocsDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, "/") || strings.HasPrefix(dir, `\`) {
		return fmt.Errorf("docs_dir must be relative to the project directory: %s", dir)
	}
	clean := filepath.ToSlash(filepath.Clean(dir))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("docs_dir must stay inside the project directory: %s", dir)
	}
	return nil
}
