package trim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/audio-trim-cli/pkg/audio"
	"github.com/user/audio-trim-cli/pkg/timeutil"
)

type fakeProber struct {
	info  audio.Info
	err   error
	calls int
}

func (f *fakeProber) Probe(context.Context, string) (audio.Info, error) {
	f.calls++
	return f.info, f.err
}

type fakeExporter struct {
	requests []audio.Request
	err      error
}

func (f *fakeExporter) Export(_ context.Context, req audio.Request) error {
	f.requests = append(f.requests, req)
	return f.err
}

func newTrimmer(duration timeutil.Offset) (*Trimmer, *fakeProber, *fakeExporter) {
	p := &fakeProber{info: audio.Info{Duration: duration, Format: "mp3"}}
	e := &fakeExporter{}
	return &Trimmer{Prober: p, Exporter: e}, p, e
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0644))
	return path
}

// trimRun mirrors what the root command does with already collected inputs.
func trimRun(t *Trimmer, path, start, end, out string) (*Job, error) {
	ctx := context.Background()
	src, err := t.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	job, err := t.Plan(src, start, end, out)
	if err != nil {
		return nil, err
	}
	return job, t.Run(ctx, job)
}

func TestScenarioStartOnly(t *testing.T) {
	tr, _, exp := newTrimmer(125000)
	path := touch(t, "song.mp3")

	job, err := trimRun(tr, path, "0:10", "", "")
	require.NoError(t, err)
	assert.Equal(t, timeutil.Range{Start: 10000, End: 125000}, job.Range)

	require.Len(t, exp.requests, 1)
	assert.Equal(t, audio.Request{
		Input:  path,
		Output: filepath.Join(filepath.Dir(path), "song_trimmed.mp3"),
		Range:  timeutil.Range{Start: 10000, End: 125000},
	}, exp.requests[0])
}

func TestScenarioEndOnly(t *testing.T) {
	tr, _, exp := newTrimmer(125000)
	path := touch(t, "song.mp3")

	job, err := trimRun(tr, path, "", "1:00", "")
	require.NoError(t, err)
	assert.Equal(t, timeutil.Range{Start: 0, End: 60000}, job.Range)
	assert.Len(t, exp.requests, 1)
}

func TestScenarioInvalidRangeNeverExports(t *testing.T) {
	tr, _, exp := newTrimmer(125000)
	path := touch(t, "song.mp3")

	_, err := trimRun(tr, path, "2:00", "1:00", "")
	require.ErrorIs(t, err, timeutil.ErrInvalidRange)
	assert.Empty(t, exp.requests)
	assert.Equal(t, ExitBadTimestamp, ExitCode(err))
	assert.Equal(t, "bad timestamp", Stage(err))
}

func TestScenarioMissingFileNeverProbes(t *testing.T) {
	tr, prober, exp := newTrimmer(125000)

	_, err := trimRun(tr, filepath.Join(t.TempDir(), "nope.mp3"), "0:10", "", "")
	require.ErrorIs(t, err, audio.ErrFileNotFound)
	assert.Zero(t, prober.calls)
	assert.Empty(t, exp.requests)
	assert.Equal(t, ExitFileNotFound, ExitCode(err))
	assert.Equal(t, "file not found", Stage(err))
}

func TestOpenRejectsDirectoryAndEmpty(t *testing.T) {
	tr, prober, _ := newTrimmer(125000)

	_, err := tr.Open(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, audio.ErrFileNotFound)

	_, err = tr.Open(context.Background(), "  ")
	assert.ErrorIs(t, err, audio.ErrFileNotFound)
	assert.Zero(t, prober.calls)
}

func TestOpenStripsQuotes(t *testing.T) {
	tr, _, _ := newTrimmer(125000)
	path := touch(t, "song.mp3")

	src, err := tr.Open(context.Background(), fmt.Sprintf(" '%s' ", path))
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, timeutil.Offset(125000), src.Duration)
	assert.Equal(t, "mp3", src.Format)
}

func TestOpenProbeFailure(t *testing.T) {
	tr, prober, _ := newTrimmer(0)
	prober.err = &audio.ExportError{Op: "probe", Kind: audio.SourceUnreadable, Err: errors.New("corrupt")}

	_, err := tr.Open(context.Background(), touch(t, "bad.mp3"))
	require.ErrorIs(t, err, audio.ErrExportFailure)
	assert.Equal(t, ExitExport, ExitCode(err))
	assert.Equal(t, "probe failed", Stage(err))
}

func TestOpenZeroDuration(t *testing.T) {
	tr, _, _ := newTrimmer(0)
	_, err := tr.Open(context.Background(), touch(t, "silent.mp3"))
	assert.Equal(t, audio.SourceUnreadable, audio.KindOf(err))
}

func TestPlanOutOfRangeAndFormat(t *testing.T) {
	tr, _, _ := newTrimmer(125000)
	src := &Source{Path: "song.mp3", Duration: 125000}

	_, err := tr.Plan(src, "3:00", "", "")
	assert.ErrorIs(t, err, timeutil.ErrOutOfRange)

	_, err = tr.Plan(src, "soon", "", "")
	assert.ErrorIs(t, err, timeutil.ErrInvalidFormat)
	assert.Equal(t, ExitBadTimestamp, ExitCode(err))
}

func TestPlanOutputRules(t *testing.T) {
	tr, _, _ := newTrimmer(125000)
	src := &Source{Path: "song.mp3", Duration: 125000}

	job, err := tr.Plan(src, "", "", "intro")
	require.NoError(t, err)
	assert.Equal(t, "intro.mp3", job.Output)

	_, err = tr.Plan(src, "", "", "intro.wav")
	require.ErrorIs(t, err, audio.ErrFormatMismatch)
	assert.Equal(t, audio.DestinationUnwritable, audio.KindOf(err))
	assert.Equal(t, ExitExport, ExitCode(err))
}

func TestRunSurfacesExportFailure(t *testing.T) {
	tr, _, exp := newTrimmer(125000)
	exp.err = &audio.ExportError{Op: "export", Kind: audio.UnsupportedCodec, Err: errors.New("exit status 1")}

	_, err := trimRun(tr, touch(t, "song.mp3"), "", "", "")
	require.ErrorIs(t, err, audio.ErrExportFailure)
	assert.Equal(t, ExitExport, ExitCode(err))
	assert.Equal(t, "export failed", Stage(err))
}

func TestJobOutputExists(t *testing.T) {
	path := touch(t, "song.mp3")
	assert.True(t, (&Job{Output: path}).OutputExists())
	assert.False(t, (&Job{Output: path + ".missing"}).OutputExists())
}

func TestExitCodeDefaults(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(errors.New("boom")))
	assert.Equal(t, "error", Stage(errors.New("boom")))
}
