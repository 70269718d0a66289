// Package buildctx resolves the paths a build post-step operates on.
package buildctx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvProjectDir and EnvBuildDir are the variables a build system
	// exports to its post-build actions.
	EnvProjectDir = "PROJECT_DIR"
	EnvBuildDir   = "BUILD_DIR"
)

// ProjectMarkers are the files that identify a project root when no
// project directory is given.
var ProjectMarkers = []string{"platformio.ini", ".export-bins.yaml"}

// Context is the build context of one export.
type Context struct {
	ProjectDir string
	BuildDir   string
	EnvName    string
}

// Options holds the explicit values a caller may supply. Empty fields are
// resolved from the environment or derived.
type Options struct {
	ProjectDir string
	BuildDir   string
	EnvName    string

	// WorkDir anchors relative paths and the project root search.
	// Defaults to the process working directory.
	WorkDir string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// New builds a Context from absolute paths, deriving the environment name
// from the last segment of buildDir.
func New(projectDir, buildDir string) Context {
	buildDir = filepath.Clean(buildDir)
	return Context{
		ProjectDir: filepath.Clean(projectDir),
		BuildDir:   buildDir,
		EnvName:    filepath.Base(buildDir),
	}
}

// Resolve fills in a Context from opts, the build-system environment and
// the working directory.
func Resolve(opts Options) (Context, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Context{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		workDir = wd
	}

	buildDir := firstNonEmpty(opts.BuildDir, getenv(EnvBuildDir))
	if buildDir == "" {
		return Context{}, fmt.Errorf("build directory is required (--build-dir or $%s)", EnvBuildDir)
	}
	buildDir = absolute(workDir, buildDir)

	info, err := os.Stat(buildDir)
	if err != nil {
		return Context{}, fmt.Errorf("build directory %s: %w", buildDir, err)
	}
	if !info.IsDir() {
		return Context{}, fmt.Errorf("build directory %s is not a directory", buildDir)
	}

	projectDir := firstNonEmpty(opts.ProjectDir, getenv(EnvProjectDir))
	if projectDir == "" {
		root, err := FindProjectRoot(workDir)
		if err != nil {
			return Context{}, err
		}
		projectDir = root
	}
	projectDir = absolute(workDir, projectDir)

	bc := New(projectDir, buildDir)
	if opts.EnvName != "" {
		bc.EnvName = opts.EnvName
	}
	if err := bc.Validate(); err != nil {
		return Context{}, err
	}
	return bc, nil
}

// Validate checks that the context can address a destination directory.
func (c Context) Validate() error {
	if c.ProjectDir == "" {
		return fmt.Errorf("project directory is required")
	}
	if c.BuildDir == "" {
		return fmt.Errorf("build directory is required")
	}
	switch c.EnvName {
	case "", ".", "..", "/":
		return fmt.Errorf("cannot derive environment name from build directory %q", c.BuildDir)
	}
	if c.EnvName == string(filepath.Separator) {
		return fmt.Errorf("cannot derive environment name from build directory %q", c.BuildDir)
	}
	return ValidateEnvName(c.EnvName)
}

// ValidateEnvName checks that name can be joined under a docs directory
// without leaving it or addressing the docs directory itself.
func ValidateEnvName(name string) error {
	switch name {
	case "", ".", "..":
		return fmt.Errorf("invalid environment name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("environment name %q must be a single path segment", name)
	}
	return nil
}

// FindProjectRoot walks up from dir looking for one of ProjectMarkers.
func FindProjectRoot(dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		for _, marker := range ProjectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("project directory not set ($%s) and no platformio.ini or .export-bins.yaml found in any parent directory", EnvProjectDir)
}

func absolute(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
