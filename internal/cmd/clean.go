package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/buildctx"
	"github.com/dosanma1/export-bins/internal/config"
	"github.com/dosanma1/export-bins/internal/exporter"
	"github.com/dosanma1/export-bins/internal/ui"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the artifacts exported for an environment",
	Long: `Remove firmware.bin, bootloader.bin and partitions.bin from
docs/<env>/, then the directory itself when nothing else is left in it.

The environment comes from --env, or from the last segment of --build-dir
/ $BUILD_DIR. The build directory does not need to exist.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&projectDir, "project-dir", "p", "", "Project root (default $PROJECT_DIR or nearest platformio.ini)")
	cleanCmd.Flags().StringVarP(&buildDir, "build-dir", "b", "", "Build output directory (default $BUILD_DIR)")
	cleanCmd.Flags().StringVarP(&envName, "env", "e", "", "Environment name")
	cleanCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default <project-dir>/"+config.FileName+")")
	cleanCmd.Flags().StringVar(&docsDir, "docs-dir", "", "Export root relative to the project directory (default docs)")
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "n", false, "List what would be removed")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	root, err := findProjectRoot()
	if err != nil {
		return err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	env := envName
	if env == "" {
		dir := buildDir
		if dir == "" {
			dir = os.Getenv(buildctx.EnvBuildDir)
		}
		if dir == "" {
			return fmt.Errorf("environment is required (--env, --build-dir or $%s)", buildctx.EnvBuildDir)
		}
		env = filepath.Base(filepath.Clean(dir))
	}
	if err := buildctx.ValidateEnvName(env); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = config.Path(root)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	expCfg, err := config.NewResolver(cfg, config.Overrides{DocsDir: docsDir, DryRun: cleanDryRun}).ExporterConfig()
	if err != nil {
		return err
	}

	removed, err := exporter.New(expCfg, cmd.OutOrStdout(), log).Clean(root, env)
	verb := "Removed"
	if cleanDryRun {
		verb = "Would remove"
	}
	for _, p := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  %s %s\n", verb, p)
	}
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Hint("Nothing to clean for "+env))
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.IconSuccess, ui.SuccessStyle.Render("Clean completed successfully"))
	return nil
}
