package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/audio-trim-cli/deps"
	"github.com/user/audio-trim-cli/pkg/timeutil"
	"go.uber.org/zap"
)

// Request is a single trim: copy [Range.Start, Range.End) of Input to Output.
type Request struct {
	Input  string
	Output string
	Range  timeutil.Range
}

// Exporter writes the trimmed slice of a source file.
type Exporter interface {
	Export(ctx context.Context, req Request) error
}

// FFmpegExporter implements Exporter using ffmpeg. The output is re-encoded
// in the format implied by its extension, which ResolveOutputPath keeps equal
// to the input's.
type FFmpegExporter struct {
	tool deps.Tool
	run  runner
	log  *zap.Logger
}

// NewFFmpegExporter creates an exporter that runs the ffmpeg binary at path
// (or "ffmpeg" from PATH when empty).
func NewFFmpegExporter(path string, log *zap.Logger) *FFmpegExporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &FFmpegExporter{tool: deps.Ffmpeg(path), run: execRunner, log: log}
}

// Export implements Exporter. ffmpeg writes to a temporary file beside the
// destination which is renamed into place only on success, so a failed run
// leaves nothing behind.
func (e *FFmpegExporter) Export(ctx context.Context, req Request) error {
	bin, err := e.tool.Check()
	if err != nil {
		return &ExportError{Op: "export", Path: req.Output, Kind: ToolMissing, Err: err}
	}

	tmp, err := createTemp(req.Output)
	if err != nil {
		return &ExportError{Op: "export", Path: req.Output, Kind: DestinationUnwritable, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmp)
		}
	}()

	args := trimArgs(req.Input, tmp, req.Range)
	e.log.Info("running ffmpeg",
		zap.String("bin", bin),
		zap.String("input", req.Input),
		zap.String("output", req.Output),
		zap.Int64("start_ms", int64(req.Range.Start)),
		zap.Int64("end_ms", int64(req.Range.End)),
	)
	e.log.Debug("ffmpeg args", zap.String("cmdline", strings.Join(args, " ")))

	_, stderr, err := e.run(ctx, bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		kind := classify(string(stderr))
		path := req.Input
		if kind == DestinationUnwritable {
			path = req.Output
		}
		e.log.Warn("ffmpeg failed", zap.Error(err), zap.Stringer("kind", kind))
		return &ExportError{Op: "export", Path: path, Kind: kind, Err: err, Detail: trimDetail(string(stderr))}
	}

	info, err := os.Stat(tmp)
	if err != nil || info.Size() == 0 {
		if err == nil {
			err = errors.New("ffmpeg produced an empty file")
		}
		return &ExportError{Op: "export", Path: req.Output, Kind: Unknown, Err: err}
	}

	if err := os.Rename(tmp, req.Output); err != nil {
		return &ExportError{Op: "export", Path: req.Output, Kind: DestinationUnwritable, Err: err}
	}
	committed = true

	e.log.Info("export complete", zap.String("output", req.Output), zap.Int64("bytes", info.Size()))
	return nil
}

// trimArgs builds the ffmpeg command line. -ss/-to follow -i so the cut is
// made on decoded samples rather than on the nearest packet.
func trimArgs(input, output string, r timeutil.Range) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-y",
		"-i", input,
		"-ss", fmt.Sprintf("%.3f", r.Start.Seconds()),
		"-to", fmt.Sprintf("%.3f", r.End.Seconds()),
		"-map", "0:a",
		"-map_metadata", "0",
		output,
	}
}

// createTemp reserves a hidden file next to output with the same extension,
// which also proves the destination directory is writable.
func createTemp(output string) (string, error) {
	dir := filepath.Dir(output)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output directory %s is not a directory", dir)
	}

	base := filepath.Base(output)
	ext := filepath.Ext(base)
	f, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".*"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
