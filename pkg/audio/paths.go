package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultOutputPath returns the suggested destination for a trim of input.
// For example, "/music/song.mp3" returns "/music/song_trimmed.mp3".
func DefaultOutputPath(input string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+"_trimmed"+ext)
}

// ResolveOutputPath turns the requested destination into the final one.
// Empty means DefaultOutputPath; a name without extension takes the input's.
// The destination must keep the input's format and must not be the input.
func ResolveOutputPath(input, requested string) (string, error) {
	out := strings.Trim(strings.TrimSpace(requested), `"'`)
	if out == "" {
		return DefaultOutputPath(input), nil
	}

	inExt := filepath.Ext(input)
	outExt := filepath.Ext(out)
	if outExt == "" {
		out += inExt
	} else if !strings.EqualFold(outExt, inExt) {
		return "", fmt.Errorf("%w: %s (input is %s)", ErrFormatMismatch, outExt, displayExt(inExt))
	}

	absIn, errIn := filepath.Abs(input)
	absOut, errOut := filepath.Abs(out)
	if errIn == nil && errOut == nil && absIn == absOut {
		return "", fmt.Errorf("%w: %s", ErrSameFile, out)
	}

	return out, nil
}

func displayExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}
