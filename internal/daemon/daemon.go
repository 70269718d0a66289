package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ExportFunc runs one export. It is never called concurrently.
type ExportFunc func(ctx context.Context) error

// Config contains daemon configuration
type Config struct {
	// BuildDir is the build output directory to watch
	BuildDir string

	// Trigger is the file name whose rewrite starts an export
	Trigger string

	// Debounce is the quiet period after the last write before exporting
	Debounce time.Duration

	// ExportOnStart runs one export immediately when the trigger already exists
	ExportOnStart bool
}

// Daemon re-runs an export every time the build rewrites its trigger file
type Daemon struct {
	config  *Config
	export  ExportFunc
	log     zerolog.Logger
	watcher *Watcher

	mu        sync.RWMutex
	startTime time.Time
	runs      int
	failures  int
	lastRun   time.Time
	lastErr   error
}

// New creates a new daemon instance
func New(config *Config, export ExportFunc, log zerolog.Logger) *Daemon {
	return &Daemon{
		config: config,
		export: export,
		log:    log,
	}
}

// Run watches the build directory until ctx is cancelled. Export failures
// are logged and counted; they do not stop the daemon.
func (d *Daemon) Run(ctx context.Context) error {
	if d.export == nil {
		return errors.New("no export function configured")
	}

	info, err := os.Stat(d.config.BuildDir)
	if err != nil {
		return fmt.Errorf("failed to watch build directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", d.config.BuildDir)
	}

	wc := DefaultWatcherConfig(d.config.BuildDir, d.config.Trigger)
	if d.config.Debounce > 0 {
		wc.Debounce = d.config.Debounce
	}

	watcher, err := NewWatcher(wc)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		watcher.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	d.mu.Lock()
	d.watcher = watcher
	d.startTime = time.Now()
	d.mu.Unlock()

	d.log.Info().
		Str("build_dir", d.config.BuildDir).
		Str("trigger", d.config.Trigger).
		Dur("debounce", wc.Debounce).
		Msg("watching for builds")

	if d.config.ExportOnStart {
		if _, err := os.Stat(filepath.Join(d.config.BuildDir, d.config.Trigger)); err == nil {
			d.runExport(ctx, "startup")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-watcher.Events():
			if event.Type == FileEventDeleted || event.Type == FileEventRenamed {
				d.log.Debug().Str("path", event.Path).Stringer("event", event.Type).Msg("trigger went away, waiting")
				continue
			}
			d.runExport(ctx, event.Type.String())
		case err := <-watcher.Errors():
			d.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (d *Daemon) runExport(ctx context.Context, reason string) {
	start := time.Now()
	err := d.export(ctx)

	d.mu.Lock()
	d.runs++
	d.lastRun = start
	d.lastErr = err
	if err != nil {
		d.failures++
	}
	d.mu.Unlock()

	if err != nil {
		d.log.Error().Err(err).Str("reason", reason).Msg("export failed")
		return
	}
	d.log.Info().Str("reason", reason).Dur("took", time.Since(start)).Msg("export finished")
}

// Status returns the daemon status
func (d *Daemon) Status() *StatusInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var uptime time.Duration
	if !d.startTime.IsZero() {
		uptime = time.Since(d.startTime)
	}

	return &StatusInfo{
		Watching: d.watcher != nil && d.watcher.IsRunning(),
		BuildDir: d.config.BuildDir,
		Uptime:   uptime,
		Runs:     d.runs,
		Failures: d.failures,
		LastRun:  d.lastRun,
		LastErr:  d.lastErr,
	}
}

// StatusInfo contains daemon status information
type StatusInfo struct {
	Watching bool
	BuildDir string
	Uptime   time.Duration
	Runs     int
	Failures int
	LastRun  time.Time
	LastErr  error
}
