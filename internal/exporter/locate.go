package exporter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// match is the outcome of looking up one artifact in the build directory.
type match struct {
	path     string
	size     int64
	fallback bool

	// candidates holds every fallback match, sorted, when the scan ran.
	candidates []string
}

// locate finds the source file for a in buildDir. A nil match with a nil
// error means the artifact is absent.
func locate(buildDir string, a Artifact) (*match, error) {
	exact := filepath.Join(buildDir, a.SourceName)
	if info, ok := regularFile(exact); ok {
		return &match{path: exact, size: info.Size()}, nil
	}

	if !a.HasFallback() {
		return nil, nil
	}

	candidates, err := scan(buildDir, a)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	chosen := filepath.Join(buildDir, candidates[0])
	info, ok := regularFile(chosen)
	if !ok {
		return nil, nil
	}
	return &match{
		path:       chosen,
		size:       info.Size(),
		fallback:   true,
		candidates: candidates,
	}, nil
}

// scan lists the immediate regular-file entries of dir matching the
// artifact's fallback pattern. os.ReadDir sorts by name, which makes the
// first candidate deterministic.
func scan(dir string, a Artifact) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !a.matchesFallback(entry.Name()) {
			continue
		}
		if _, ok := regularFile(filepath.Join(dir, entry.Name())); !ok {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// regularFile stats path, following symlinks, and reports whether it is a
// regular file.
func regularFile(path string) (os.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return info, true
}
