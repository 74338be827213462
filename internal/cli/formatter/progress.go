package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░]  45% for a
// percentage in [0, 100]. The bar is green above 66%, yellow from 33% and
// red below. Plain mode draws the bar with # and -.
func RenderProgress(pct float64, width int, plain bool) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct / 100 * float64(width))
	empty := width - filled
	pctStr := fmt.Sprintf("%3.0f%%", pct)

	if plain {
		return fmt.Sprintf("[%s%s] %s", strings.Repeat("#", filled), strings.Repeat("-", empty), pctStr)
	}

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}
