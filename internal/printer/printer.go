// Package printer renders styled console output.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
)

var (
	noColor bool
	verbose bool

	// Stderr receives diagnostics. Replaced in tests.
	Stderr io.Writer = os.Stderr
)

// SetNoColor disables styling for all subsequent output.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// SetVerbose enables Debugf output.
func SetVerbose(enabled bool) {
	verbose = enabled
}

func render(style lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

// Faint returns text with faint styling.
func Faint(text string) string {
	return render(faintStyle, text)
}

// Error returns text with error (red) styling.
func Error(text string) string {
	return render(errorStyle, text)
}

// Warning returns text with warning (yellow) styling.
func Warning(text string) string {
	return render(warningStyle, text)
}

// PrintError writes an error line to Stderr.
func PrintError(text string) {
	fmt.Fprintln(Stderr, Error(text))
}

// PrintWarning writes a warning line to Stderr.
func PrintWarning(text string) {
	fmt.Fprintln(Stderr, Warning(text))
}

// Debugf writes a faint diagnostic line to Stderr when verbose output is on.
func Debugf(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintln(Stderr, Faint(fmt.Sprintf(format, args...)))
}
