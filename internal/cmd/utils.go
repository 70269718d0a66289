package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/buildctx"
	"github.com/dosanma1/export-bins/internal/config"
)

// Flags shared by every command that operates on a build.
var (
	projectDir string
	buildDir   string
	envName    string
	configPath string
	docsDir    string
	pickPolicy string
	strict     bool
)

// addBuildFlags registers the build context and export settings flags on c.
func addBuildFlags(c *cobra.Command) {
	c.Flags().StringVarP(&projectDir, "project-dir", "p", "", "Project root (default $PROJECT_DIR or nearest platformio.ini)")
	c.Flags().StringVarP(&buildDir, "build-dir", "b", "", "Build output directory (default $BUILD_DIR)")
	c.Flags().StringVarP(&envName, "env", "e", "", "Environment name (default: last segment of the build directory)")
	c.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default <project-dir>/"+config.FileName+")")
	c.Flags().StringVar(&docsDir, "docs-dir", "", "Export root relative to the project directory (default docs)")
	c.Flags().StringVar(&pickPolicy, "pick", "", "Policy for several fallback matches (first|strict)")
	c.Flags().BoolVar(&strict, "strict", false, "Fail when an artifact is missing")
}

// session is everything a command needs to run an export.
type session struct {
	build    buildctx.Context
	config   *config.Config
	resolver *config.Resolver
}

// newSession resolves the build context and loads the project config.
func newSession(overrides config.Overrides) (*session, error) {
	bc, err := buildctx.Resolve(buildctx.Options{
		ProjectDir: projectDir,
		BuildDir:   buildDir,
		EnvName:    envName,
	})
	if err != nil {
		return nil, err
	}

	path := configPath
	if path == "" {
		path = config.Path(bc.ProjectDir)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	overrides.DocsDir = docsDir
	overrides.Pick = pickPolicy
	overrides.Strict = strict

	log.Debug().
		Str("project_dir", bc.ProjectDir).
		Str("build_dir", bc.BuildDir).
		Str("env", bc.EnvName).
		Str("config", path).
		Msg("resolved build context")

	return &session{
		build:    bc,
		config:   cfg,
		resolver: config.NewResolver(cfg, overrides),
	}, nil
}

// findProjectRoot returns the project directory from the flag, the build
// system environment or the nearest marker file above the working directory.
func findProjectRoot() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	if dir := os.Getenv(buildctx.EnvProjectDir); dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return buildctx.FindProjectRoot(cwd)
}
