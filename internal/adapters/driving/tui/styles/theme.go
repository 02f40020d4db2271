// Package styles provides colour themes and styling for the progress view.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette the progress view draws with.
type Theme struct {
	Accent    lipgloss.Color // header and spinner
	Converted lipgloss.Color // files a converter rewrote
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Good      lipgloss.Color
	Bad       lipgloss.Color
}

// DefaultTheme returns the palette used when none is configured.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    "#7C3AED",
		Converted: "#06B6D4",
		Text:      "#CDD6F4",
		Dim:       "#6C7086",
		Good:      "#A6E3A1",
		Bad:       "#F38BA8",
	}
}

// Styles holds one lipgloss style per element of the progress view.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Converted lipgloss.Style
	Spinner   lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
}

// NewStyles derives styles from theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme:     theme,
		Title:     fg(theme.Accent).Bold(true),
		Normal:    fg(theme.Text),
		Muted:     fg(theme.Dim),
		Converted: fg(theme.Converted),
		Spinner:   fg(theme.Accent),
		Error:     fg(theme.Bad),
		Success:   fg(theme.Good).Bold(true),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
