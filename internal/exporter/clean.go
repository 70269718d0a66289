package exporter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dosanma1/export-bins/internal/buildctx"
)

// Clean removes the canonical artifacts exported for envName under
// projectDir and then the environment directory itself if it is left
// empty. Other files in the directory are kept. It returns the removed
// paths.
func (e *Exporter) Clean(projectDir, envName string) ([]string, error) {
	if err := buildctx.ValidateEnvName(envName); err != nil {
		return nil, err
	}

	dir := filepath.Join(projectDir, e.config.DocsDir, envName)
	var removed []string
	for _, a := range e.config.Artifacts {
		path := filepath.Join(dir, a.CanonicalName)
		if e.config.DryRun {
			if _, ok := regularFile(path); ok {
				removed = append(removed, path)
			}
			continue
		}
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
		e.log.Debug().Str("path", path).Msg("removed exported artifact")
	}

	if e.config.DryRun {
		return removed, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return removed, nil
		}
		return removed, err
	}
	if len(entries) == 0 {
		if err := os.Remove(dir); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return removed, nil
}
