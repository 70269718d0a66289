package exporter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosanma1/export-bins/internal/buildctx"
)

type fixture struct {
	project string
	build   string
	bc      buildctx.Context
}

func newFixture(t *testing.T, env string) fixture {
	t.Helper()
	project := t.TempDir()
	build := filepath.Join(project, ".pio", "build", env)
	require.NoError(t, os.MkdirAll(build, 0o755))
	return fixture{project: project, build: build, bc: buildctx.New(project, build)}
}

func (f fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.build, name), []byte(content), 0o644))
}

func (f fixture) dest(name string) string {
	return filepath.Join(f.project, "docs", f.bc.EnvName, name)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func run(t *testing.T, cfg *Config, bc buildctx.Context) (*Result, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	result, err := New(cfg, &out, zerolog.Nop()).Export(context.Background(), bc)
	require.NoError(t, err)
	return result, &out
}

func TestExport_ExactNames(t *testing.T) {
	f := newFixture(t, "esp32dev")
	f.write(t, "firmware.bin", "fw")
	f.write(t, "bootloader.bin", "bl")
	f.write(t, "partitions.bin", "pt")

	result, out := run(t, nil, f.bc)

	assert.Equal(t, "fw", readFile(t, f.dest("firmware.bin")))
	assert.Equal(t, "bl", readFile(t, f.dest("bootloader.bin")))
	assert.Equal(t, "pt", readFile(t, f.dest("partitions.bin")))
	assert.Equal(t, []string{
		"[export_bins] esp32dev: copied firmware.bin -> docs/esp32dev/",
		"[export_bins] esp32dev: copied bootloader.bin -> docs/esp32dev/",
		"[export_bins] esp32dev: copied partitions.bin -> docs/esp32dev/",
	}, lines(out))

	assert.True(t, result.OK())
	assert.NoError(t, result.Err())
	require.Len(t, result.Copied, 3)
	for _, c := range result.Copied {
		assert.False(t, c.Fallback)
		assert.Equal(t, int64(2), c.Bytes)
	}
	assert.Empty(t, result.Ambiguous)
}

func TestExport_FallbackNames(t *testing.T) {
	f := newFixture(t, "esp32dev")
	f.write(t, "firmware.bin", "fw")
	f.write(t, "bootloader-v2.bin", "bl-v2")
	f.write(t, "partitions-table.bin", "pt-table")

	result, out := run(t, nil, f.bc)

	assert.Equal(t, "fw", readFile(t, f.dest("firmware.bin")))
	assert.Equal(t, "bl-v2", readFile(t, f.dest("bootloader.bin")))
	assert.Equal(t, "pt-table", readFile(t, f.dest("partitions.bin")))
	assert.Len(t, lines(out), 3)
	for _, line := range lines(out) {
		assert.Contains(t, line, ": copied ")
	}

	require.Len(t, result.Copied, 3)
	assert.False(t, result.Copied[0].Fallback)
	assert.True(t, result.Copied[1].Fallback)
	assert.Equal(t, filepath.Join(f.build, "bootloader-v2.bin"), result.Copied[1].Source)
	assert.True(t, result.Copied[2].Fallback)

	_, err := os.Stat(f.dest("bootloader-v2.bin"))
	assert.True(t, os.IsNotExist(err), "destination must use the canonical name")
}

func TestExport_EmptyBuildDir(t *testing.T) {
	f := newFixture(t, "esp32dev")

	result, out := run(t, nil, f.bc)

	info, err := os.Stat(filepath.Join(f.project, "docs", "esp32dev"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(filepath.Join(f.project, "docs", "esp32dev"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Equal(t, []string{
		"[export_bins] esp32dev: WARN missing firmware.bin",
		"[export_bins] esp32dev: WARN missing bootloader.bin",
		"[export_bins] esp32dev: WARN missing partitions.bin",
	}, lines(out))

	assert.False(t, result.OK())
	assert.Equal(t, []Kind{KindFirmware, KindBootloader, KindPartitions}, result.Missing)

	var missing *MissingError
	require.True(t, errors.As(result.Err(), &missing))
	assert.Equal(t, "esp32dev: missing artifacts: firmware, bootloader, partitions", missing.Error())
}

func TestExport_FirmwareHasNoFallback(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware-v2.bin", "fw")
	f.write(t, "bootloader.bin", "bl")
	f.write(t, "partitions.bin", "pt")

	result, out := run(t, nil, f.bc)

	assert.Equal(t, "[export_bins] node: WARN missing firmware.bin", lines(out)[0])
	assert.Equal(t, []Kind{KindFirmware}, result.Missing)
	_, err := os.Stat(f.dest("firmware.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestExport_FallbackIgnoresNonMatching(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "bootloader.elf", "elf")
	f.write(t, "my-bootloader.bin", "wrong prefix")
	f.write(t, "partitions.csv", "csv")
	require.NoError(t, os.Mkdir(filepath.Join(f.build, "partitions-dir.bin"), 0o755))

	result, _ := run(t, nil, f.bc)

	assert.Equal(t, []Kind{KindFirmware, KindBootloader, KindPartitions}, result.Missing)
	assert.Empty(t, result.Copied)
}

func TestExport_ExactNameWinsOverFallback(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "bootloader-a.bin", "a")
	f.write(t, "bootloader.bin", "exact")

	result, _ := run(t, nil, f.bc)

	assert.Equal(t, "exact", readFile(t, f.dest("bootloader.bin")))
	assert.Empty(t, result.Ambiguous)
}

func TestExport_AmbiguousFallbackPicksFirst(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "bootloader_qio.bin", "qio")
	f.write(t, "bootloader_dio.bin", "dio")
	f.write(t, "bootloader-z.bin", "z")

	result, _ := run(t, nil, f.bc)

	assert.Equal(t, "z", readFile(t, f.dest("bootloader.bin")))
	require.Len(t, result.Ambiguous, 1)
	assert.Equal(t, Ambiguity{
		Kind:       KindBootloader,
		Candidates: []string{"bootloader-z.bin", "bootloader_dio.bin", "bootloader_qio.bin"},
		Chosen:     "bootloader-z.bin",
	}, result.Ambiguous[0])
}

func TestExport_AmbiguousFallbackStrict(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "partitions-a.bin", "a")
	f.write(t, "partitions-b.bin", "b")

	cfg := DefaultConfig()
	cfg.Pick = PickStrict
	result, out := run(t, cfg, f.bc)

	assert.Contains(t, out.String(), "[export_bins] node: WARN missing partitions.bin")
	assert.Contains(t, result.Missing, KindPartitions)
	require.Len(t, result.Ambiguous, 1)
	assert.Empty(t, result.Ambiguous[0].Chosen)
	_, err := os.Stat(f.dest("partitions.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestExport_Idempotent(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware.bin", "fw")
	f.write(t, "bootloader.bin", "bl")
	f.write(t, "partitions.bin", "pt")

	_, first := run(t, nil, f.bc)
	_, second := run(t, nil, f.bc)

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, "fw", readFile(t, f.dest("firmware.bin")))
}

func TestExport_PreservesModTime(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware.bin", "fw")
	mtime := time.Date(2023, 7, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(f.build, "firmware.bin"), mtime, mtime))

	run(t, nil, f.bc)

	info, err := os.Stat(f.dest("firmware.bin"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestExport_DryRun(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware.bin", "firmware")

	cfg := DefaultConfig()
	cfg.DryRun = true
	result, out := run(t, cfg, f.bc)

	assert.Contains(t, out.String(), "[export_bins] node: copied firmware.bin -> docs/node/")
	assert.True(t, result.DryRun)
	require.Len(t, result.Copied, 1)
	assert.Equal(t, int64(len("firmware")), result.Copied[0].Bytes)

	_, err := os.Stat(filepath.Join(f.project, "docs"))
	assert.True(t, os.IsNotExist(err), "dry run must not create directories")
}

func TestExport_CustomDocsDir(t *testing.T) {
	f := newFixture(t, "gateway")
	f.write(t, "firmware.bin", "fw")

	cfg := DefaultConfig()
	cfg.DocsDir = filepath.Join("site", "bins")
	_, out := run(t, cfg, f.bc)

	assert.Equal(t, "fw", readFile(t, filepath.Join(f.project, "site", "bins", "gateway", "firmware.bin")))
	assert.Contains(t, out.String(), "copied firmware.bin -> site/bins/gateway/")
}

func TestExport_Progress(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware.bin", strings.Repeat("x", 4096))

	var progress bytes.Buffer
	cfg := DefaultConfig()
	cfg.Progress = &progress
	result, _ := run(t, cfg, f.bc)

	require.Len(t, result.Copied, 1)
	assert.Equal(t, int64(4096), result.Copied[0].Bytes)
}

func TestExport_CancelledContext(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware.bin", "fw")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	result, err := New(nil, &out, zerolog.Nop()).Export(ctx, f.bc)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Copied)
	assert.Empty(t, out.String())
}

func TestExport_DestinationCreateFails(t *testing.T) {
	f := newFixture(t, "node")
	// A file where the docs directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(f.project, "docs"), []byte("x"), 0o644))

	_, err := New(nil, nil, zerolog.Nop()).Export(context.Background(), f.bc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create")
}

func TestExport_CopyFailureDoesNotStopOthers(t *testing.T) {
	f := newFixture(t, "node")
	f.write(t, "firmware.bin", "fw")
	f.write(t, "bootloader.bin", "bl")
	f.write(t, "partitions.bin", "pt")
	// Non-empty directories where the firmware and partition table go.
	for _, name := range []string{"firmware.bin", "partitions.bin"} {
		require.NoError(t, os.MkdirAll(f.dest(name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(f.dest(name), "keep"), []byte("x"), 0o644))
	}

	var out bytes.Buffer
	result, err := New(nil, &out, zerolog.Nop()).Export(context.Background(), f.bc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firmware.bin: failed to copy")
	assert.Contains(t, err.Error(), "partitions.bin: failed to copy")

	require.NotNil(t, result)
	require.Len(t, result.Copied, 1)
	assert.Equal(t, KindBootloader, result.Copied[0].Kind)
	assert.Empty(t, result.Missing)
	assert.Equal(t, "bl", readFile(t, f.dest("bootloader.bin")))
	assert.Equal(t, []string{"[export_bins] node: copied bootloader.bin -> docs/node/"}, lines(&out))
}

func TestExport_InvalidContext(t *testing.T) {
	_, err := New(nil, nil, zerolog.Nop()).Export(context.Background(), buildctx.Context{})
	require.Error(t, err)
}

func TestParsePickPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PickPolicy
		wantErr bool
	}{
		{"", PickFirst, false},
		{"first", PickFirst, false},
		{"STRICT", "", true},
		{"random", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePickPolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArtifact_FallbackPattern(t *testing.T) {
	arts := DefaultArtifacts()
	require.Len(t, arts, 3)
	assert.Equal(t, "", arts[0].FallbackPattern())
	assert.Equal(t, "bootloader*.bin", arts[1].FallbackPattern())
	assert.Equal(t, "partitions*.bin", arts[2].FallbackPattern())
}
