package components

import (
	"fmt"
	"strings"

	"cardburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarEntry is a single labeled bar in a horizontal bar list.
type BarEntry struct {
	Label string
	Value float64
	Text  string // rendered value, e.g. "$1,234.50"
}

// HorizontalBars renders labeled bars scaled to the largest value. Used for
// per-card balance comparison on the overview tab.
func HorizontalBars(entries []BarEntry, width int, color lipgloss.Color) string {
	if len(entries) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, e := range entries {
		if len(e.Label) > labelW {
			labelW = len(e.Label)
		}
		if len(e.Text) > textW {
			textW = len(e.Text)
		}
		if e.Value > peak {
			peak = e.Value
		}
	}
	if peak == 0 {
		peak = 1
	}

	barW := width - labelW - textW - 4
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(color)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceHover)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		filled := int(e.Value / peak * float64(barW))
		if filled > barW {
			filled = barW
		}
		if filled < 1 && e.Value > 0 {
			filled = 1
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, e.Label)))
		b.WriteString("  ")
		b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(trackStyle.Render(strings.Repeat("░", barW-filled)))
		b.WriteString("  ")
		b.WriteString(textStyle.Render(fmt.Sprintf("%*s", textW, e.Text)))
	}

	return b.String()
}
