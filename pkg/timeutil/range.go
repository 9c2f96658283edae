package timeutil

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat is returned when a timestamp matches none of the accepted forms.
	ErrInvalidFormat = errors.New("invalid timestamp format")
	// ErrOutOfRange is returned when a timestamp falls outside [0, duration].
	ErrOutOfRange = errors.New("timestamp out of range")
	// ErrInvalidRange is returned when the start does not come before the end.
	ErrInvalidRange = errors.New("start must be before end")
)

// Endpoint identifies which side of a range an input describes.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

func (e Endpoint) String() string {
	if e == End {
		return "end"
	}
	return "start"
}

// Default returns the offset used when the endpoint's input is empty.
func (e Endpoint) Default(duration Offset) Offset {
	if e == End {
		return duration
	}
	return 0
}

// TimestampError describes a timestamp that failed to parse or validate.
type TimestampError struct {
	Input    string
	Endpoint Endpoint
	Duration Offset
	Err      error
}

func (e *TimestampError) Error() string {
	if errors.Is(e.Err, ErrInvalidFormat) {
		return fmt.Sprintf("%s time %q: %v (expected HH:MM:SS, MM:SS, seconds, or <n>ms)", e.Endpoint, e.Input, e.Err)
	}
	return fmt.Sprintf("%s time %q: %v (valid range 00:00.00 - %s)", e.Endpoint, e.Input, e.Err, e.Duration)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

// RangeError reports a resolved range whose start is not before its end.
type RangeError struct {
	Start Offset
	End   Offset
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("end time (%s) must be after start time (%s)", e.End, e.Start)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// Range is a validated [Start, End) span with Start < End.
type Range struct {
	Start Offset
	End   Offset
}

// Length returns End - Start.
func (r Range) Length() Offset {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// Resolve turns a raw endpoint input into an offset within [0, duration].
// Empty input resolves to the endpoint's default.
func Resolve(input string, ep Endpoint, duration Offset) (Offset, error) {
	if strings.TrimSpace(input) == "" {
		return ep.Default(duration), nil
	}

	v, err := Parse(input, duration)
	if err != nil {
		return 0, &TimestampError{Input: input, Endpoint: ep, Duration: duration, Err: err}
	}
	if v < 0 || v > duration {
		return 0, &TimestampError{Input: input, Endpoint: ep, Duration: duration, Err: ErrOutOfRange}
	}
	return v, nil
}

// NewRange validates that start comes before end.
func NewRange(start, end Offset) (Range, error) {
	if start >= end {
		return Range{}, &RangeError{Start: start, End: end}
	}
	return Range{Start: start, End: end}, nil
}

// ResolveRange resolves both endpoints against duration and validates the pair.
func ResolveRange(startInput, endInput string, duration Offset) (Range, error) {
	start, err := Resolve(startInput, Start, duration)
	if err != nil {
		return Range{}, err
	}
	end, err := Resolve(endInput, End, duration)
	if err != nil {
		return Range{}, err
	}
	return NewRange(start, end)
}
