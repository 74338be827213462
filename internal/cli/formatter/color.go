package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/bugtrail/internal/schedule"
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. Tone colors come from schedule.Tone.Hex instead.
var (
	colorOK     = lipgloss.Color("#8ec07c")
	colorWarn   = lipgloss.Color("#fabd2f")
	colorBad    = lipgloss.Color("#fb4934")
	colorMuted  = lipgloss.Color("#928374")
	colorText   = lipgloss.Color("#ebdbb2")
	colorAccent = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorOK)
	StyleYellow = lipgloss.NewStyle().Foreground(colorWarn)
	StyleRed    = lipgloss.NewStyle().Foreground(colorBad)
	StyleDim    = lipgloss.NewStyle().Foreground(colorMuted)
	StyleFg     = lipgloss.NewStyle().Foreground(colorText)
	StyleHeader = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	StyleBold   = StyleFg.Bold(true)
)

// ToneStyle colors status text using the tone's legacy hex code. Neutral
// falls back to the foreground color so it stays readable on dark terminals.
func ToneStyle(tone schedule.Tone) lipgloss.Style {
	if tone == schedule.ToneNeutral || tone == "" {
		return StyleFg
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#" + tone.Hex()))
}

// StatusText renders a classifier status. In plain mode the tone is shown as
// a bracketed label instead of a color.
func StatusText(st schedule.Status, plain bool) string {
	if st.Text == "" {
		return Dim("--", plain)
	}
	if plain {
		if st.Tone == schedule.ToneNeutral {
			return st.Text
		}
		return fmt.Sprintf("[%s] %s", st.Tone, st.Text)
	}
	return ToneStyle(st.Tone).Render(st.Text)
}

// Header upper-cases text and underlines it.
func Header(text string, plain bool) string {
	upper := strings.ToUpper(text)
	if plain {
		return upper + "\n" + strings.Repeat("-", len(upper))
	}
	return StyleHeader.Render(upper) + "\n" + StyleDim.Render(strings.Repeat("─", len(upper)))
}

func Dim(text string, plain bool) string {
	if plain {
		return text
	}
	return StyleDim.Render(text)
}

func Bold(text string, plain bool) string {
	if plain {
		return text
	}
	return StyleBold.Render(text)
}
