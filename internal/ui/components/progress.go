package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wangchingta/exam-site/internal/ui/theme"
)

// Bar is a horizontal bar filled to Fraction of Width cells.
type Bar struct {
	Fraction float64
	Width    int
}

// NewBar creates a bar. Fractions outside [0, 1] are clamped.
func NewBar(fraction float64, width int) Bar {
	return Bar{Fraction: fraction, Width: width}
}

// Filled returns the number of filled cells.
func (p Bar) Filled() int {
	w := max(p.Width, 1)
	return min(max(int(float64(w)*p.Fraction+0.5), 0), w)
}

// View renders the bar.
func (p Bar) View() string {
	w := max(p.Width, 1)
	filled := p.Filled()
	return theme.BarFilled.Render(strings.Repeat(" ", filled)) +
		theme.BarEmpty.Render(strings.Repeat(" ", w-filled))
}

// Pad right-pads s with spaces to width cells.
func Pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
