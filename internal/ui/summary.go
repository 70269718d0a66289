// Package ui renders the human-facing parts of the CLI output.
package ui

import (
	"fmt"
	"strings"

	"github.com/dosanma1/export-bins/internal/exporter"
)

// Summary renders a short styled summary of an export result.
func Summary(r *exporter.Result) string {
	var b strings.Builder

	verb := "copied"
	if r.DryRun {
		verb = "would copy"
	}

	counts := fmt.Sprintf("%d %s, %d missing", len(r.Copied), verb, len(r.Missing))
	icon, style := IconSuccess, SuccessStyle
	switch {
	case len(r.Copied) == 0:
		icon, style = IconError, ErrorStyle
	case len(r.Missing) > 0:
		icon, style = IconWarning, WarningStyle
	}

	fmt.Fprintf(&b, "%s %s: %s %s\n", icon, r.EnvName, style.Render(counts), PathStyle.Render(r.DestDir))

	for _, amb := range r.Ambiguous {
		chosen := amb.Chosen
		if chosen == "" {
			chosen = "none (strict)"
		}
		line := fmt.Sprintf("%s: %d candidates (%s), picked %s",
			amb.Kind, len(amb.Candidates), strings.Join(amb.Candidates, ", "), chosen)
		fmt.Fprintf(&b, "%s %s\n", IconWarning, WarningStyle.Render(line))
	}

	return b.String()
}

// Hint renders a dim one-line hint.
func Hint(s string) string {
	return HelpStyle.Render(s)
}
