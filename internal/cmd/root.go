package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/logger"
)

var (
	verbose   bool
	logFormat string

	// log is configured from the persistent flags before any command runs.
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "export-bins",
	Short: "Copy firmware images from a build directory into docs/<env>/",
	Long: `export-bins runs after a firmware build and copies the main image,
the bootloader and the partition table into the project's docs directory,
under docs/<environment>/ with canonical names.

The build directory and project directory come from --build-dir and
--project-dir, or from $BUILD_DIR and $PROJECT_DIR as exported by the
build system. The environment name is the build directory's last segment.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		log = logger.New(logger.Config{
			Level:  level,
			Pretty: logFormat != "json",
			Out:    cmd.ErrOrStderr(),
		})
		return nil
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show diagnostic logs")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Diagnostic log format (console|json)")

	// Commands are registered in their respective files via init()
}
