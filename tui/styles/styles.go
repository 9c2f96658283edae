// Package styles provides Lipgloss styles for terminal output using the Ciapre colour palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - Ciapre (warm, earthy) theme from Gogh
const (
	// DeepPurple is the dimmest accent, used for blurred form chrome
	DeepPurple = lipgloss.Color("#191C27")
	// Purple is the border/dim accent colour (Ciapre ANSI 6 brown)
	Purple = lipgloss.Color("#5C4F4B")
	// BrightPurple is used for highlights and focus states (Ciapre ANSI 5 magenta)
	BrightPurple = lipgloss.Color("#724D7C")
	// Lavender is a secondary text colour (Ciapre foreground)
	Lavender = lipgloss.Color("#AEA47A")
	// LightLavender is the primary text colour (Ciapre ANSI 14 cream)
	LightLavender = lipgloss.Color("#F3DBB2")
	// Pink is an accent colour for headers (Ciapre ANSI 13 bright magenta)
	Pink = lipgloss.Color("#D33061")
	// Cyan is an accent colour for values and interactive elements (Ciapre ANSI 12 bright blue)
	Cyan = lipgloss.Color("#3097C6")
	// Amber is a warm accent for hints
	Amber = lipgloss.Color("#CC8B3F")
	// Red is used for warnings and errors (Ciapre ANSI 1)
	Red = lipgloss.Color("#AC3835")
	// Green is used for success messages (Ciapre ANSI 2)
	Green = lipgloss.Color("#A6A75D")
)

// Header is the banner shown at the top of an interactive session
var Header = lipgloss.NewStyle().
	Foreground(Pink).
	Bold(true).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Purple).
	Padding(0, 2)

// Label is the style for field names in summaries
var Label = lipgloss.NewStyle().
	Foreground(Lavender)

// Value is the style for field values in summaries
var Value = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true)

// Hint is the style for secondary guidance such as accepted formats
var Hint = lipgloss.NewStyle().
	Foreground(Amber)

// Warning is the style for warning and error messages
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)

// Field renders "label: value" with the summary styles.
func Field(label, value string) string {
	return Label.Render(label+":") + " " + Value.Render(value)
}
