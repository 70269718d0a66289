package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/config"
	"github.com/dosanma1/export-bins/internal/exporter"
	"github.com/dosanma1/export-bins/internal/ui"
)

var (
	exportDryRun   bool
	exportProgress bool
	exportQuiet    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy the build's firmware images into docs/<env>/",
	Long: `Copy firmware.bin, bootloader.bin and partitions.bin from the build
directory into <project-dir>/docs/<env>/.

The bootloader and partition table fall back to the first bootloader*.bin /
partitions*.bin file (in name order) when the exact name is absent. A
missing artifact is reported as a warning and does not fail the command
unless --strict is set.

Examples:
  export-bins export                                   # $PROJECT_DIR / $BUILD_DIR from the build
  export-bins export -b .pio/build/esp32dev            # explicit build directory
  export-bins export -b build/node --env node-eu868    # override the environment name
  export-bins export --dry-run                         # show what would be copied
  export-bins export --strict                          # fail when an artifact is missing`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addBuildFlags(exportCmd)
	exportCmd.Flags().BoolVarP(&exportDryRun, "dry-run", "n", false, "Report what would be copied without writing")
	exportCmd.Flags().BoolVar(&exportProgress, "progress", false, "Show a progress bar per copy")
	exportCmd.Flags().BoolVarP(&exportQuiet, "quiet", "q", false, "Omit the summary")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := newSession(config.Overrides{DryRun: exportDryRun})
	if err != nil {
		return err
	}

	expCfg, err := s.resolver.ExporterConfig()
	if err != nil {
		return err
	}
	if exportProgress {
		expCfg.Progress = cmd.ErrOrStderr()
	}

	result, err := exporter.New(expCfg, cmd.OutOrStdout(), log).Export(cmd.Context(), s.build)
	if result != nil && !exportQuiet {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Summary(result))
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if s.resolver.Strict() {
		return result.Err()
	}
	return nil
}
