package forms

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/user/audio-trim-cli/pkg/audio"
	"github.com/user/audio-trim-cli/pkg/timeutil"
)

// FormatsHelp lists the accepted timestamp forms.
const FormatsHelp = `MM:SS (1:30)  HH:MM:SS (0:01:30)  seconds (90)  milliseconds (5000ms)`

// TrimFormResult holds the raw inputs of a completed trim form. Empty
// strings mean "use the default".
type TrimFormResult struct {
	Start  string
	End    string
	Output string
}

// TrimFormOptions controls which fields the trim form asks for. Fields
// already supplied on the command line are skipped.
type TrimFormOptions struct {
	Input    string
	Duration timeutil.Offset
	AskStart bool
	AskEnd   bool
	AskOut   bool
}

// ValidateStart checks a start input the way the trim will resolve it.
func ValidateStart(s string, duration timeutil.Offset) error {
	_, err := timeutil.Resolve(s, timeutil.Start, duration)
	return err
}

// ValidateEnd checks an end input against the already entered start.
func ValidateEnd(start, end string, duration timeutil.Offset) error {
	endOffset, err := timeutil.Resolve(end, timeutil.End, duration)
	if err != nil {
		return err
	}
	startOffset, err := timeutil.Resolve(start, timeutil.Start, duration)
	if err != nil {
		// The start field reports its own error.
		return nil
	}
	_, err = timeutil.NewRange(startOffset, endOffset)
	return err
}

// NewTrimForm creates a huh form for the start, end and output prompts.
// Each field validates inline so bad input is re-prompted rather than
// aborting the run. The result pointer is bound to the form fields.
func NewTrimForm(opts TrimFormOptions, result *TrimFormResult) *huh.Form {
	header := fmt.Sprintf("Trim %s (duration %s)", opts.Input, opts.Duration)
	fields := []huh.Field{
		huh.NewNote().Title(header).Description(FormatsHelp),
	}

	if opts.AskStart {
		fields = append(fields, huh.NewInput().
			Title("Start").
			Description("Enter for the beginning").
			Placeholder(timeutil.Offset(0).String()).
			Value(&result.Start).
			Validate(func(s string) error {
				return ValidateStart(s, opts.Duration)
			}))
	}

	if opts.AskEnd {
		fields = append(fields, huh.NewInput().
			Title("End").
			Description("Enter for the end of the file").
			Placeholder(opts.Duration.String()).
			Value(&result.End).
			Validate(func(s string) error {
				return ValidateEnd(result.Start, s, opts.Duration)
			}))
	}

	if opts.AskOut {
		defaultOutput := audio.DefaultOutputPath(opts.Input)
		fields = append(fields, huh.NewInput().
			Title("Output file").
			Description(fmt.Sprintf("Enter for %s", defaultOutput)).
			Placeholder(defaultOutput).
			Value(&result.Output).
			Validate(func(s string) error {
				_, err := audio.ResolveOutputPath(opts.Input, s)
				return err
			}))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(Theme())
}
