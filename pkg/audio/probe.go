package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/audio-trim-cli/deps"
	"github.com/user/audio-trim-cli/pkg/timeutil"
	"go.uber.org/zap"
)

// Info describes a probed audio file.
type Info struct {
	Duration timeutil.Offset
	Format   string
}

// Prober reads an audio file's duration without decoding it for playback.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// errNotHandled tells ChainProber to move on to the next prober.
var errNotHandled = errors.New("format not handled by prober")

// ChainProber tries each prober in order and returns the first success.
type ChainProber []Prober

// Probe implements Prober.
func (c ChainProber) Probe(ctx context.Context, path string) (Info, error) {
	err := error(errNotHandled)
	for _, p := range c {
		info, perr := p.Probe(ctx, path)
		if perr == nil {
			return info, nil
		}
		if !errors.Is(perr, errNotHandled) {
			err = perr
		}
	}
	if errors.Is(err, errNotHandled) {
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: UnsupportedCodec, Err: err}
	}
	return Info{}, err
}

// runner executes a tool and returns its stdout and stderr separately.
type runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

// FFprobeProber implements Prober using ffprobe.
type FFprobeProber struct {
	tool deps.Tool
	run  runner
	log  *zap.Logger
}

// NewFFprobeProber creates a prober that runs the ffprobe binary at path
// (or "ffprobe" from PATH when empty).
func NewFFprobeProber(path string, log *zap.Logger) *FFprobeProber {
	if log == nil {
		log = zap.NewNop()
	}
	return &FFprobeProber{tool: deps.Ffprobe(path), run: execRunner, log: log}
}

// ffprobeOutput defines the structure for ffprobe JSON output.
type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Probe implements Prober.
func (p *FFprobeProber) Probe(ctx context.Context, path string) (Info, error) {
	bin, err := p.tool.Check()
	if err != nil {
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: ToolMissing, Err: err}
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration,format_name",
		"-of", "json",
		path,
	}
	p.log.Debug("running ffprobe", zap.String("bin", bin), zap.Strings("args", args))

	stdout, stderr, err := p.run(ctx, bin, args...)
	if err != nil {
		kind := classify(string(stderr))
		if kind == Unknown {
			kind = SourceUnreadable
		}
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: kind, Err: err, Detail: trimDetail(string(stderr))}
	}

	return parseFFprobe(path, stdout)
}

func parseFFprobe(path string, stdout []byte) (Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(stdout, &probe); err != nil {
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: SourceUnreadable, Err: fmt.Errorf("failed to unmarshal ffprobe output: %w", err)}
	}

	raw := strings.TrimSpace(probe.Format.Duration)
	if raw == "" || raw == "N/A" {
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: SourceUnreadable, Err: errors.New("ffprobe reported no duration")}
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs <= 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: SourceUnreadable, Err: fmt.Errorf("invalid duration %q", raw)}
	}

	format, _, _ := strings.Cut(probe.Format.FormatName, ",")
	return Info{Duration: floorMillis(secs), Format: format}, nil
}

// floorMillis converts seconds to whole milliseconds, rounding down so the
// end default never points past the last sample.
func floorMillis(secs float64) timeutil.Offset {
	return timeutil.Offset(math.Floor(secs*1000 + 1e-6))
}
