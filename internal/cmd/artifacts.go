package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/exporter"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List the exported artifacts and how each is located",
	Args:  cobra.NoArgs,
	RunE:  runArtifacts,
}

func init() {
	rootCmd.AddCommand(artifactsCmd)
}

func runArtifacts(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSOURCE\tEXPORTED AS\tFALLBACK")
	for _, a := range exporter.DefaultArtifacts() {
		fallback := a.FallbackPattern()
		if fallback == "" {
			fallback = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Kind, a.SourceName, a.CanonicalName, fallback)
	}
	return tw.Flush()
}
