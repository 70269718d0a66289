package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dosanma1/export-bins/internal/buildctx"
	"github.com/dosanma1/export-bins/pkg/xos"
)

// LinePrefix tags every line written to the output writer.
const LinePrefix = "[export_bins]"

// DefaultDocsDir is the destination root, relative to the project directory.
const DefaultDocsDir = "docs"

// PickPolicy decides what happens when a fallback scan matches several files.
type PickPolicy string

const (
	// PickFirst takes the lexicographically first candidate.
	PickFirst PickPolicy = "first"

	// PickStrict refuses to choose and reports the artifact as missing.
	PickStrict PickPolicy = "strict"
)

// ParsePickPolicy converts s into a PickPolicy. An empty string is PickFirst.
func ParsePickPolicy(s string) (PickPolicy, error) {
	switch PickPolicy(s) {
	case "", PickFirst:
		return PickFirst, nil
	case PickStrict:
		return PickStrict, nil
	default:
		return "", fmt.Errorf("unknown pick policy %q (must be first or strict)", s)
	}
}

// Config contains exporter configuration.
type Config struct {
	// DocsDir is the destination root relative to the project directory.
	DocsDir string

	// Pick resolves ambiguous fallback scans.
	Pick PickPolicy

	// DryRun reports what would be copied without touching the filesystem.
	DryRun bool

	// Artifacts defaults to DefaultArtifacts.
	Artifacts []Artifact

	// Progress, when set, receives a byte progress bar per copy.
	Progress io.Writer
}

// DefaultConfig returns the default exporter configuration.
func DefaultConfig() *Config {
	return &Config{
		DocsDir:   DefaultDocsDir,
		Pick:      PickFirst,
		Artifacts: DefaultArtifacts(),
	}
}

// Exporter copies build artifacts into the docs directory.
type Exporter struct {
	config *Config
	out    io.Writer
	log    zerolog.Logger
}

// New creates an exporter that writes its report lines to out and its
// diagnostics to log.
func New(config *Config, out io.Writer, log zerolog.Logger) *Exporter {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	config = &cfg
	if config.DocsDir == "" {
		config.DocsDir = DefaultDocsDir
	}
	if config.Pick == "" {
		config.Pick = PickFirst
	}
	if len(config.Artifacts) == 0 {
		config.Artifacts = DefaultArtifacts()
	}
	if out == nil {
		out = io.Discard
	}
	return &Exporter{config: config, out: out, log: log}
}

// DestDir returns the directory bc's artifacts are exported to.
func (e *Exporter) DestDir(bc buildctx.Context) string {
	return filepath.Join(bc.ProjectDir, e.config.DocsDir, bc.EnvName)
}

// Export copies every artifact of bc into its destination directory.
//
// Missing artifacts do not produce an error; they are reported and listed
// in Result.Missing. The returned error carries I/O failures only, joined
// across artifacts, and is returned together with the partial result.
func (e *Exporter) Export(ctx context.Context, bc buildctx.Context) (*Result, error) {
	if err := bc.Validate(); err != nil {
		return nil, err
	}

	destDir := e.DestDir(bc)
	result := &Result{
		EnvName: bc.EnvName,
		DestDir: destDir,
		DryRun:  e.config.DryRun,
	}

	log := e.log.With().
		Str("env", bc.EnvName).
		Str("build_dir", bc.BuildDir).
		Str("dest_dir", destDir).
		Bool("dry_run", e.config.DryRun).
		Logger()

	if !e.config.DryRun {
		if err := xos.CreateDir(destDir, 0o755); err != nil {
			return result, fmt.Errorf("failed to create %s: %w", destDir, err)
		}
	}

	var errs []error
	for _, a := range e.config.Artifacts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.exportOne(bc, destDir, a, result, log); err != nil {
			log.Error().Err(err).Str("artifact", a.CanonicalName).Msg("export failed")
			errs = append(errs, err)
		}
	}

	return result, errors.Join(errs...)
}

func (e *Exporter) exportOne(bc buildctx.Context, destDir string, a Artifact, result *Result, log zerolog.Logger) error {
	m, err := locate(bc.BuildDir, a)
	if err != nil {
		return fmt.Errorf("%s: failed to scan %s: %w", a.CanonicalName, bc.BuildDir, err)
	}

	if m != nil && len(m.candidates) > 1 {
		amb := Ambiguity{Kind: a.Kind, Candidates: m.candidates}
		if e.config.Pick == PickStrict {
			log.Warn().
				Str("artifact", a.CanonicalName).
				Strs("candidates", m.candidates).
				Msg("several fallback candidates, refusing to pick one")
			m = nil
		} else {
			amb.Chosen = filepath.Base(m.path)
			log.Warn().
				Str("artifact", a.CanonicalName).
				Strs("candidates", m.candidates).
				Str("chosen", amb.Chosen).
				Msg("several fallback candidates, picked the first")
		}
		result.Ambiguous = append(result.Ambiguous, amb)
	}

	if m == nil {
		result.Missing = append(result.Missing, a.Kind)
		fmt.Fprintf(e.out, "%s %s: WARN missing %s\n", LinePrefix, bc.EnvName, a.CanonicalName)
		return nil
	}

	dst := filepath.Join(destDir, a.CanonicalName)
	n := m.size
	if !e.config.DryRun {
		var opts []xos.CopyOption
		if e.config.Progress != nil {
			opts = append(opts, xos.WithProgress(e.config.Progress, a.CanonicalName))
		}
		n, err = xos.CopyFile(m.path, dst, opts...)
		if err != nil {
			return fmt.Errorf("%s: failed to copy %s: %w", a.CanonicalName, m.path, err)
		}
	}

	result.Copied = append(result.Copied, Copy{
		Kind:        a.Kind,
		Source:      m.path,
		Destination: dst,
		Bytes:       n,
		Fallback:    m.fallback,
	})
	log.Debug().
		Str("artifact", a.CanonicalName).
		Str("source", m.path).
		Bool("fallback", m.fallback).
		Int64("bytes", n).
		Msg("artifact exported")
	fmt.Fprintf(e.out, "%s %s: copied %s -> %s\n", LinePrefix, bc.EnvName, a.CanonicalName, e.displayDir(bc.EnvName))
	return nil
}

// displayDir renders the destination relative to the project directory,
// slash-separated with a trailing slash.
func (e *Exporter) displayDir(envName string) string {
	return path.Join(filepath.ToSlash(e.config.DocsDir), envName) + "/"
}
