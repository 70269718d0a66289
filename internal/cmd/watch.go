package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/config"
	"github.com/dosanma1/export-bins/internal/daemon"
	"github.com/dosanma1/export-bins/internal/exporter"
	"github.com/dosanma1/export-bins/internal/ui"
)

var (
	watchDebounce      time.Duration
	watchProgram       string
	watchExportOnStart bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Export again every time the build rewrites its program image",
	Long: `Watch the build directory and run the export whenever <program>.bin
is written. Use this when the build system cannot run a post-build action.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period after the last write (default from config, 500ms)")
	watchCmd.Flags().StringVar(&watchProgram, "program", "", "Program name; <program>.bin triggers an export (default firmware)")
	watchCmd.Flags().BoolVar(&watchExportOnStart, "export-on-start", true, "Export once at startup when the image already exists")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(config.Overrides{Program: watchProgram})
	if err != nil {
		return err
	}

	expCfg, err := s.resolver.ExporterConfig()
	if err != nil {
		return err
	}
	exp := exporter.New(expCfg, cmd.OutOrStdout(), log)

	debounce := watchDebounce
	if debounce == 0 {
		debounce = s.config.Watch.Debounce
	}

	d := daemon.New(&daemon.Config{
		BuildDir:      s.build.BuildDir,
		Trigger:       s.resolver.TriggerName(),
		Debounce:      debounce,
		ExportOnStart: watchExportOnStart,
	}, func(ctx context.Context) error {
		result, err := exp.Export(ctx, s.build)
		if result != nil {
			fmt.Fprint(cmd.ErrOrStderr(), ui.Summary(result))
		}
		if err != nil {
			return err
		}
		if s.resolver.Strict() {
			return result.Err()
		}
		return nil
	}, log)

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s for %s %s\n",
		ui.IconWatch,
		ui.PathStyle.Render(s.build.BuildDir),
		s.resolver.TriggerName(),
		ui.Hint("(ctrl+c to stop)"))

	return d.Run(cmd.Context())
}
