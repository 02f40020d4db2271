package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme_ColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	colours := []string{
		string(theme.Accent),
		string(theme.Converted),
		string(theme.Text),
		string(theme.Dim),
		string(theme.Good),
		string(theme.Bad),
	}

	seen := make(map[string]bool)
	for _, c := range colours {
		assert.NotEmpty(t, c)
		assert.False(t, seen[c], "duplicate colour %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	assert.True(t, s.Title.GetBold())
	assert.True(t, s.Success.GetBold())
	assert.Contains(t, s.Normal.Render("a.md"), "a.md")
	assert.Contains(t, s.Error.Render("failed"), "failed")
	assert.Equal(t, lipgloss.Color("#06B6D4"), s.Converted.GetForeground())
}
