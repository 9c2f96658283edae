package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Offset is a point in an audio file measured in milliseconds from the start.
type Offset int64

// Seconds returns the offset as fractional seconds.
func (o Offset) Seconds() float64 {
	return float64(o) / 1000
}

// String formats the offset as MM:SS.ss, or HH:MM:SS.ss when it reaches an hour.
func (o Offset) String() string {
	sign := ""
	if o < 0 {
		sign = "-"
		o = -o
	}
	hours := int64(o) / 3600000
	minutes := (int64(o) % 3600000) / 60000
	secs := float64(int64(o)%60000) / 1000
	if hours > 0 {
		return fmt.Sprintf("%s%02d:%02d:%05.2f", sign, hours, minutes, secs)
	}
	return fmt.Sprintf("%s%02d:%05.2f", sign, minutes, secs)
}

// FormatTime formats seconds as H:MM:SS (e.g. 0:01:30, 1:11:22).
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
}

// Unit is how a bare number is read.
type Unit int

const (
	Seconds Unit = iota
	Milliseconds
)

func (u Unit) String() string {
	if u == Milliseconds {
		return "milliseconds"
	}
	return "seconds"
}

// BareNumberUnit decides whether a bare number n is seconds or milliseconds
// for a file of the given duration. A number is seconds unless reading it as
// seconds overshoots the file while reading it as whole milliseconds does not.
func BareNumberUnit(n float64, duration Offset) Unit {
	if n*1000 <= float64(duration) {
		return Seconds
	}
	if n == math.Trunc(n) && n <= float64(duration) {
		return Milliseconds
	}
	return Seconds
}

// Parse converts a timestamp string into an Offset. It accepts HH:MM:SS,
// MM:SS, "<n>ms", "<n>s" and bare numbers; see BareNumberUnit for how bare
// numbers are read. Parse checks syntax only: the result may be negative or
// beyond duration. Empty input is an error here; use Resolve for defaults.
func Parse(input string, duration Offset) (Offset, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrInvalidFormat
	}

	// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = number.
	switch strings.Count(s, ":") {
	case 2:
		return parseClock(s, 3)
	case 1:
		return parseClock(s, 2)
	case 0:
	default:
		return 0, ErrInvalidFormat
	}

	switch {
	case strings.HasSuffix(s, "ms"):
		n, err := strconv.ParseInt(strings.TrimSuffix(s, "ms"), 10, 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
		return Offset(n), nil
	case strings.HasSuffix(s, "s"):
		secs, err := parseNumber(strings.TrimSuffix(s, "s"))
		if err != nil {
			return 0, err
		}
		return fromSeconds(secs), nil
	}

	n, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if BareNumberUnit(n, duration) == Milliseconds {
		return Offset(n), nil
	}
	return fromSeconds(n), nil
}

// parseClock handles the MM:SS and HH:MM:SS forms. The leading field is
// unbounded; every following field must be below 60. Only the last field may
// carry a fraction.
func parseClock(s string, fields int) (Offset, error) {
	parts := strings.Split(s, ":")
	if len(parts) != fields {
		return 0, ErrInvalidFormat
	}

	var total int64
	for i, p := range parts[:fields-1] {
		if !isDigits(p) {
			return 0, ErrInvalidFormat
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
		if i > 0 && v >= 60 {
			return 0, ErrInvalidFormat
		}
		if v > maxClockField || total > maxClockField {
			return Offset(math.MaxInt64), nil
		}
		total = total*60 + v
	}

	last := parts[fields-1]
	whole, frac, hasFrac := strings.Cut(last, ".")
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) {
		return 0, ErrInvalidFormat
	}
	secs, err := strconv.ParseFloat(last, 64)
	if err != nil || secs >= 60 {
		return 0, ErrInvalidFormat
	}

	return Offset(total*60000) + fromSeconds(secs), nil
}

// parseNumber accepts an optionally signed decimal without exponent.
func parseNumber(s string) (float64, error) {
	digits := strings.TrimPrefix(s, "-")
	whole, frac, hasFrac := strings.Cut(digits, ".")
	if whole == "" && hasFrac {
		whole = "0"
	}
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) {
		return 0, ErrInvalidFormat
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// maxClockField keeps clock arithmetic inside int64; anything larger is far
// beyond any real file and reports as out of range.
const maxClockField = math.MaxInt64 / 60000 / 120

// fromSeconds truncates toward zero to whole milliseconds.
func fromSeconds(secs float64) Offset {
	ms := math.Trunc(math.Round(secs*1e6) / 1e3)
	if ms >= math.MaxInt64 {
		return Offset(math.MaxInt64)
	}
	if ms <= math.MinInt64 {
		return Offset(math.MinInt64)
	}
	return Offset(ms)
}
