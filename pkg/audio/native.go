package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/user/audio-trim-cli/pkg/timeutil"
)

// NativeProber reads durations of MP3 and WAV files in-process. Other
// formats return errNotHandled so a ChainProber falls through to ffprobe.
type NativeProber struct{}

// Probe implements Prober. The file is closed before Probe returns.
func (NativeProber) Probe(_ context.Context, path string) (Info, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp3" && ext != ".wav" {
		return Info{}, errNotHandled
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Info{}, &ExportError{Op: "probe", Path: path, Kind: SourceUnreadable, Err: err}
	}
	defer f.Close()

	var info Info
	switch ext {
	case ".mp3":
		info, err = probeMP3(f)
	case ".wav":
		info, err = probeWAV(f)
	}
	if err != nil {
		// Let ffprobe have a go at files our readers trip over.
		return Info{}, fmt.Errorf("%w: %v", errNotHandled, err)
	}
	return info, nil
}

func probeMP3(r io.ReadSeeker) (Info, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return Info{}, fmt.Errorf("mp3 decoder: %w", err)
	}
	// Decoded output is 16-bit stereo: 4 bytes per sample frame.
	frames := d.Length() / 4
	if frames <= 0 || d.SampleRate() <= 0 {
		return Info{}, errors.New("mp3: unknown length")
	}
	ms := frames * 1000 / int64(d.SampleRate())
	return Info{Duration: timeutil.Offset(ms), Format: "mp3"}, nil
}

// wavHeader is the RIFF preamble of a WAV file.
type wavHeader struct {
	ChunkID   [4]byte
	ChunkSize uint32
	Format    [4]byte
}

// wavFmt is the body of the "fmt " chunk up to BitsPerSample.
type wavFmt struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

func probeWAV(r io.ReadSeeker) (Info, error) {
	var header wavHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Info{}, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return Info{}, errors.New("invalid WAV file")
	}

	var format *wavFmt
	for {
		var chunkID [4]byte
		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if err == io.EOF {
				return Info{}, errors.New("data chunk not found")
			}
			return Info{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return Info{}, err
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if chunkSize < 16 {
				return Info{}, errors.New("fmt chunk too short")
			}
			format = &wavFmt{}
			if err := binary.Read(r, binary.LittleEndian, format); err != nil {
				return Info{}, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if err := skip(r, int64(chunkSize)-16); err != nil {
				return Info{}, err
			}
		case "data":
			if format == nil {
				return Info{}, errors.New("data chunk before fmt chunk")
			}
			if format.ByteRate == 0 {
				return Info{}, errors.New("zero byte rate")
			}
			ms := int64(chunkSize) * 1000 / int64(format.ByteRate)
			return Info{Duration: timeutil.Offset(ms), Format: "wav"}, nil
		default:
			if err := skip(r, int64(chunkSize)); err != nil {
				return Info{}, err
			}
		}
	}
}

// skip advances past a chunk body; RIFF pads odd-sized chunks to even.
func skip(r io.Seeker, n int64) error {
	if n%2 == 1 {
		n++
	}
	_, err := r.Seek(n, io.SeekCurrent)
	return err
}
