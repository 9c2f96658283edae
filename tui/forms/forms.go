// Package forms provides huh-based prompts for interactive trims.
package forms

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// NewConfirmOverwriteForm asks whether an existing output file may be replaced.
// The result pointer is bound to the confirm field value.
func NewConfirmOverwriteForm(path string, overwrite *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Overwrite existing file?").
				Description(fmt.Sprintf("%s already exists.", filepath.Base(path))).
				Affirmative("Yes, overwrite").
				Negative("No, cancel").
				Value(overwrite),
		),
	).WithTheme(Theme())
}

// NewInputPathForm prompts for the audio file to trim.
func NewInputPathForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Audio file").
				Description("Path to the file to trim").
				Value(path).
				Validate(func(s string) error {
					if strings.Trim(strings.TrimSpace(s), `"'`) == "" {
						return fmt.Errorf("a file path is required")
					}
					return nil
				}),
		),
	).WithTheme(Theme())
}
