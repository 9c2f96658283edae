// Package trim runs a single trim from a source file to an output file:
// check the source, probe its duration, resolve the requested range, and
// hand the job to the exporter.
package trim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/user/audio-trim-cli/pkg/audio"
	"github.com/user/audio-trim-cli/pkg/timeutil"
	"go.uber.org/zap"
)

// Source is an input file with its probed duration.
type Source struct {
	Path     string
	Duration timeutil.Offset
	Format   string
}

// Job is a fully resolved trim, ready for export.
type Job struct {
	Source *Source
	Range  timeutil.Range
	Output string
}

// OutputExists reports whether the job's destination is already present.
func (j *Job) OutputExists() bool {
	_, err := os.Stat(j.Output)
	return err == nil
}

// Trimmer wires the prober and exporter together.
type Trimmer struct {
	Prober   audio.Prober
	Exporter audio.Exporter
	Log      *zap.Logger
}

func (t *Trimmer) log() *zap.Logger {
	if t.Log == nil {
		return zap.NewNop()
	}
	return t.Log
}

// CleanPath strips whitespace and the quotes terminals add around dragged-in paths.
func CleanPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), `"'`)
}

// Open checks that path is an existing regular file and probes its
// duration. Missing files fail with audio.ErrFileNotFound before any probe.
func (t *Trimmer) Open(ctx context.Context, path string) (*Source, error) {
	path = CleanPath(path)
	if path == "" {
		return nil, fmt.Errorf("%w: no input file given", audio.ErrFileNotFound)
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", audio.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, &audio.ExportError{Op: "probe", Path: path, Kind: audio.SourceUnreadable, Err: err}
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", audio.ErrFileNotFound, path)
	}

	probed, err := t.Prober.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if probed.Duration <= 0 {
		return nil, &audio.ExportError{Op: "probe", Path: path, Kind: audio.SourceUnreadable, Err: errors.New("file has no audio")}
	}

	t.log().Info("opened source",
		zap.String("path", path),
		zap.String("format", probed.Format),
		zap.Int64("duration_ms", int64(probed.Duration)),
	)
	return &Source{Path: path, Duration: probed.Duration, Format: probed.Format}, nil
}

// Plan resolves the raw start, end and output inputs against src. It makes
// no collaborator calls.
func (t *Trimmer) Plan(src *Source, startInput, endInput, outputInput string) (*Job, error) {
	r, err := timeutil.ResolveRange(startInput, endInput, src.Duration)
	if err != nil {
		return nil, err
	}

	out, err := audio.ResolveOutputPath(src.Path, outputInput)
	if err != nil {
		return nil, &audio.ExportError{Op: "export", Path: outputInput, Kind: audio.DestinationUnwritable, Err: err}
	}

	t.log().Debug("planned trim",
		zap.Int64("start_ms", int64(r.Start)),
		zap.Int64("end_ms", int64(r.End)),
		zap.String("output", out),
	)
	return &Job{Source: src, Range: r, Output: out}, nil
}

// Run performs the export. It is called at most once per job.
func (t *Trimmer) Run(ctx context.Context, job *Job) error {
	return t.Exporter.Export(ctx, audio.Request{
		Input:  job.Source.Path,
		Output: job.Output,
		Range:  job.Range,
	})
}

// Exit codes by failing stage.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitFileNotFound = 2
	ExitBadTimestamp = 3
	ExitExport       = 4
)

// ExitCode maps err to the process exit code for its stage.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, audio.ErrFileNotFound):
		return ExitFileNotFound
	case errors.Is(err, timeutil.ErrInvalidFormat),
		errors.Is(err, timeutil.ErrOutOfRange),
		errors.Is(err, timeutil.ErrInvalidRange):
		return ExitBadTimestamp
	case errors.Is(err, audio.ErrExportFailure):
		return ExitExport
	default:
		return ExitError
	}
}

// Stage names the step that failed, for error messages.
func Stage(err error) string {
	switch ExitCode(err) {
	case ExitFileNotFound:
		return "file not found"
	case ExitBadTimestamp:
		return "bad timestamp"
	case ExitExport:
		var exportErr *audio.ExportError
		if errors.As(err, &exportErr) && exportErr.Op == "probe" {
			return "probe failed"
		}
		return "export failed"
	default:
		return "error"
	}
}
