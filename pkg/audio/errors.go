package audio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is returned when the source path does not exist or is a directory.
	ErrFileNotFound = errors.New("file not found")
	// ErrExportFailure matches every *ExportError.
	ErrExportFailure = errors.New("export failed")
	// ErrOutputExists is returned when the destination exists and overwriting was not allowed.
	ErrOutputExists = errors.New("output file already exists")
	// ErrSameFile is returned when the destination would overwrite the source.
	ErrSameFile = errors.New("output path is the input file")
	// ErrFormatMismatch is returned when the destination extension differs from the source's.
	ErrFormatMismatch = errors.New("output extension must match input")
)

// Kind classifies a collaborator failure.
type Kind int

const (
	Unknown Kind = iota
	SourceUnreadable
	UnsupportedCodec
	DestinationUnwritable
	ToolMissing
)

func (k Kind) String() string {
	switch k {
	case SourceUnreadable:
		return "source unreadable"
	case UnsupportedCodec:
		return "unsupported codec"
	case DestinationUnwritable:
		return "destination unwritable"
	case ToolMissing:
		return "tool missing"
	default:
		return "unknown failure"
	}
}

// ExportError wraps a failure of ffmpeg, ffprobe, or the file operations
// around them.
type ExportError struct {
	Op     string // "probe" or "export"
	Path   string
	Kind   Kind
	Err    error
	Detail string // tool stderr, trimmed
}

func (e *ExportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Op, e.Path, e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, "\n%s", e.Detail)
	}
	return b.String()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func (e *ExportError) Is(target error) bool {
	return target == ErrExportFailure
}

// KindOf returns the Kind of err when it wraps an *ExportError.
func KindOf(err error) Kind {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return Unknown
}

// stderr fragments ffmpeg and ffprobe print for each failure class. Checked
// in order; the first match wins.
var stderrKinds = []struct {
	kind      Kind
	fragments []string
}{
	{DestinationUnwritable, []string{
		"Permission denied",
		"Read-only file system",
		"No space left on device",
		"Is a directory",
	}},
	{UnsupportedCodec, []string{
		"Decoder not found",
		"Encoder not found",
		"Unknown encoder",
		"Unknown decoder",
		"not currently supported",
		"Unsupported codec",
		"Could not find tag for codec",
		"Unable to find a suitable output format",
		"Automatic encoder selection failed",
	}},
	{SourceUnreadable, []string{
		"No such file or directory",
		"Invalid data found when processing input",
		"moov atom not found",
		"could not find codec parameters",
		"Failed to read frame size",
		"matches no streams",
		"End of file",
	}},
}

func classify(stderr string) Kind {
	for _, k := range stderrKinds {
		for _, f := range k.fragments {
			if strings.Contains(stderr, f) {
				return k.kind
			}
		}
	}
	return Unknown
}

// trimDetail keeps the last few lines of tool output; ffmpeg prints the
// cause at the end.
func trimDetail(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
