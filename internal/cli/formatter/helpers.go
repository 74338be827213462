package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DateLayout is the display layout for calendar dates.
const DateLayout = "Jan 2, 2006"

// RenderBox wraps content in a rounded-border box with an optional title.
// Plain mode emits the title and content without a border.
func RenderBox(title, content string, plain bool) string {
	if plain {
		if title == "" {
			return content
		}
		return Header(title, true) + "\n" + content
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// DateOrDash formats t as a calendar date, or "--" for the zero time.
func DateOrDash(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "--"
	}
	return t.Format(DateLayout)
}

// KeyValue renders aligned "label  value" lines.
func KeyValue(pairs [][2]string, plain bool) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Dim(p[0]+strings.Repeat(" ", width-len(p[0])), plain))
		b.WriteString("  ")
		b.WriteString(p[1])
	}
	return b.String()
}
