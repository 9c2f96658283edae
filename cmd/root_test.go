package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/audio-trim-cli/config"
	"github.com/user/audio-trim-cli/pkg/audio"
	"github.com/user/audio-trim-cli/pkg/timeutil"
	"github.com/user/audio-trim-cli/pkg/trim"
	"go.uber.org/zap"
)

type fakeProber struct {
	duration timeutil.Offset
	calls    int
}

func (f *fakeProber) Probe(context.Context, string) (audio.Info, error) {
	f.calls++
	return audio.Info{Duration: f.duration, Format: "mp3"}, nil
}

type fakeExporter struct {
	requests []audio.Request
}

func (f *fakeExporter) Export(_ context.Context, req audio.Request) error {
	f.requests = append(f.requests, req)
	return os.WriteFile(req.Output, []byte("audio"), 0644)
}

type harness struct {
	prober   *fakeProber
	exporter *fakeExporter
	previews []timeutil.Range
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

// newHarness swaps the package hooks for fakes and restores them afterwards.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{prober: &fakeProber{duration: 125000}, exporter: &fakeExporter{}}

	origConfig, origTrimmer, origTerminal, origPreview := loadConfig, newTrimmer, stdinIsTerminal, previewRange
	t.Cleanup(func() {
		loadConfig, newTrimmer, stdinIsTerminal, previewRange = origConfig, origTrimmer, origTerminal, origPreview
	})

	loadConfig = func() *config.Config {
		return &config.Config{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe", MpvPath: "mpv", LogLevel: "error"}
	}
	newTrimmer = func(cfg *config.Config, log *zap.Logger) *trim.Trimmer {
		return &trim.Trimmer{Prober: h.prober, Exporter: h.exporter, Log: log}
	}
	stdinIsTerminal = func() bool { return false }
	previewRange = func(ctx context.Context, mpvPath, audioPath string, r timeutil.Range) error {
		h.previews = append(h.previews, r)
		return nil
	}
	return h
}

func (h *harness) run(args ...string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0644))
	return path
}

func TestTrimWithStartOnly(t *testing.T) {
	h := newHarness(t)
	path := touch(t, "song.mp3")

	require.NoError(t, h.run(path, "--start", "0:10"))

	require.Len(t, h.exporter.requests, 1)
	req := h.exporter.requests[0]
	assert.Equal(t, timeutil.Range{Start: 10000, End: 125000}, req.Range)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "song_trimmed.mp3"), req.Output)
	assert.Contains(t, h.stdout.String(), "File saved as")
	assert.Contains(t, h.stdout.String(), "song_trimmed.mp3")
}

func TestTrimWithEndOnlyAndOutput(t *testing.T) {
	h := newHarness(t)
	path := touch(t, "song.mp3")
	out := filepath.Join(filepath.Dir(path), "intro")

	require.NoError(t, h.run(path, "-e", "1:00", "-o", out))

	require.Len(t, h.exporter.requests, 1)
	assert.Equal(t, timeutil.Range{Start: 0, End: 60000}, h.exporter.requests[0].Range)
	assert.Equal(t, out+".mp3", h.exporter.requests[0].Output)
}

func TestTrimInvalidRange(t *testing.T) {
	h := newHarness(t)
	path := touch(t, "song.mp3")

	err := h.run(path, "--start", "2:00", "--end", "1:00")
	require.ErrorIs(t, err, timeutil.ErrInvalidRange)
	assert.Equal(t, trim.ExitBadTimestamp, trim.ExitCode(err))
	assert.Empty(t, h.exporter.requests)
}

func TestTrimMissingFile(t *testing.T) {
	h := newHarness(t)

	err := h.run(filepath.Join(t.TempDir(), "missing.mp3"), "--start", "0:10")
	require.ErrorIs(t, err, audio.ErrFileNotFound)
	assert.Equal(t, trim.ExitFileNotFound, trim.ExitCode(err))
	assert.Zero(t, h.prober.calls)
	assert.Empty(t, h.exporter.requests)
}

func TestTrimNoInputNonInteractive(t *testing.T) {
	h := newHarness(t)

	err := h.run("--yes")
	assert.ErrorIs(t, err, audio.ErrFileNotFound)
}

func TestTrimRefusesOverwriteWithoutForce(t *testing.T) {
	h := newHarness(t)
	path := touch(t, "song.mp3")
	require.NoError(t, os.WriteFile(audio.DefaultOutputPath(path), []byte("old"), 0644))

	err := h.run(path)
	require.ErrorIs(t, err, audio.ErrOutputExists)
	assert.Equal(t, trim.ExitExport, trim.ExitCode(err))
	assert.Empty(t, h.exporter.requests)

	require.NoError(t, h.run(path, "--force"))
	assert.Len(t, h.exporter.requests, 1)
}

func TestTrimRejectsBadLogLevel(t *testing.T) {
	h := newHarness(t)
	err := h.run(touch(t, "song.mp3"), "--log-level", "chatty")
	assert.Error(t, err)
	assert.Empty(t, h.exporter.requests)
}

func TestProbeCommand(t *testing.T) {
	h := newHarness(t)
	path := touch(t, "song.mp3")

	require.NoError(t, h.run("probe", path))
	assert.Contains(t, h.stdout.String(), "02:05.00")
	assert.Contains(t, h.stdout.String(), "0:02:05")
	assert.Contains(t, h.stdout.String(), "125000ms")
}

func TestPreviewCommand(t *testing.T) {
	h := newHarness(t)
	path := touch(t, "song.mp3")

	require.NoError(t, h.run("preview", path, "-s", "30", "-e", "1:00"))
	assert.Equal(t, []timeutil.Range{{Start: 30000, End: 60000}}, h.previews)
	assert.Empty(t, h.exporter.requests)
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("version"))
	assert.Contains(t, h.stdout.String(), "audio-trim version "+Version)
}
