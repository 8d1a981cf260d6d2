package tui

import (
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ValidThemes is the list of supported theme names.
var ValidThemes = []string{"gitv", "base", "charm", "dracula"}

// currentTheme is nil until SetTheme picks a non-default theme.
var currentTheme *huh.Theme

// IsValidTheme returns true if the given theme name is valid.
func IsValidTheme(name string) bool {
	return slices.Contains(ValidThemes, name)
}

// SetTheme sets the prompt theme by name. Unknown names select the default.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
}

// GetTheme returns the huh.Theme for name, or nil if it is not recognized.
func GetTheme(name string) *huh.Theme {
	switch name {
	case "gitv":
		return gitvTheme()
	case "base":
		return huh.ThemeBase()
	case "charm":
		return huh.ThemeCharm()
	case "dracula":
		return huh.ThemeDracula()
	default:
		return nil
	}
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return gitvTheme()
	}
	return currentTheme
}

// gitvTheme is the base theme with bold titles and padded buttons.
func gitvTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Bold(true)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Bold(true).Padding(0, 1).
		Background(lipgloss.Color("6")).Foreground(lipgloss.Color("0"))
	t.Focused.BlurredButton = t.Focused.BlurredButton.Padding(0, 1)
	return t
}
