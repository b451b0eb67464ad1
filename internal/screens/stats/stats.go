// Package stats is the per-question statistics screen.
package stats

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wangchingta/exam-site/internal/router"
	"github.com/wangchingta/exam-site/internal/screen"
	st "github.com/wangchingta/exam-site/internal/stats"
	"github.com/wangchingta/exam-site/internal/ui/components"
	"github.com/wangchingta/exam-site/internal/ui/layout"
	"github.com/wangchingta/exam-site/internal/ui/theme"
)

const barWidth = 12

var (
	scrollUp   = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Scroll"))
	scrollDown = key.NewBinding(key.WithKeys("down", "j"))
	back       = key.NewBinding(key.WithKeys("s", "q", "esc"), key.WithHelp("Esc", "Back"))
)

// StatsScreen lists every question with its counters, highest weight
// first.
type StatsScreen struct {
	rows   []st.Row
	offset int
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates the screen from a report taken when it was opened.
func New(rows []st.Row) *StatsScreen {
	return &StatsScreen{rows: rows}
}

func (s *StatsScreen) Init() tea.Cmd { return nil }

func (s *StatsScreen) Title() string { return "Statistics" }

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: scrollUp.Help().Key, Description: scrollUp.Help().Desc},
		{Key: back.Help().Key, Description: back.Help().Desc},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(kmsg, scrollUp):
		if s.offset > 0 {
			s.offset--
		}
	case key.Matches(kmsg, scrollDown):
		if s.offset < len(s.rows)-1 {
			s.offset++
		}
	case key.Matches(kmsg, back):
		return s, router.Pop
	}
	return s, nil
}

// Offset returns the index of the first visible row.
func (s *StatsScreen) Offset() int { return s.offset }

func (s *StatsScreen) View(width, height int) string {
	var b strings.Builder

	shown, wrong := st.Totals(s.rows)
	b.WriteString(theme.Title.Render(fmt.Sprintf(
		"%d questions, %d shown, %d wrong", len(s.rows), shown, wrong)))
	b.WriteString("\n\n")
	b.WriteString(theme.Dimmed.Render(header()))
	b.WriteString("\n")

	maxWeight := 0.0
	for _, r := range s.rows {
		maxWeight = max(maxWeight, r.Weight)
	}

	visible := max(height-4, 1)
	end := min(s.offset+visible, len(s.rows))
	promptWidth := max(width-4-lipgloss.Width(header())-2, 10)
	for _, r := range s.rows[s.offset:end] {
		frac := 0.0
		if maxWeight > 0 {
			frac = r.Weight / maxWeight
		}
		line := fmt.Sprintf("%-6s %5d %5d %6.2f ",
			truncate(string(r.ID), 6), r.Show, r.Wrong, r.Weight)
		b.WriteString(theme.Body.Render(line))
		b.WriteString(components.NewBar(frac, barWidth).View())
		b.WriteString("  ")
		b.WriteString(theme.Body.Render(truncate(r.Prompt, promptWidth)))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(0, 2).Width(width).MaxHeight(height).Render(b.String())
}

func header() string {
	return fmt.Sprintf("%-6s %5s %5s %6s %s", "ID", "Shown", "Wrong", "Weight",
		components.Pad("", barWidth))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
