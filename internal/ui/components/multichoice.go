package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/ui/theme"
)

// MultiChoice renders a question's options as "<key>. <text>" lines with a
// movable cursor. Nothing is selected until the cursor is moved.
type MultiChoice struct {
	question *bank.Question
	keys     []string
	cursor   int // -1 = no selection

	locked  bool
	chosen  string
	correct string
}

// NewMultiChoice shows q's options with nothing selected.
func NewMultiChoice(q *bank.Question) MultiChoice {
	m := MultiChoice{question: q, cursor: -1}
	if q != nil {
		m.keys = q.OptionKeys()
	}
	return m
}

// Up moves the cursor up, selecting the last option if none is selected.
func (m *MultiChoice) Up() {
	if m.locked || len(m.keys) == 0 {
		return
	}
	switch {
	case m.cursor < 0:
		m.cursor = len(m.keys) - 1
	case m.cursor > 0:
		m.cursor--
	}
}

// Down moves the cursor down, selecting the first option if none is
// selected.
func (m *MultiChoice) Down() {
	if m.locked || len(m.keys) == 0 {
		return
	}
	if m.cursor < len(m.keys)-1 {
		m.cursor++
	}
}

// ChooseIndex selects the i-th option (0-based) in render order.
func (m *MultiChoice) ChooseIndex(i int) bool {
	if m.locked || i < 0 || i >= len(m.keys) {
		return false
	}
	m.cursor = i
	return true
}

// SelectedKey returns the highlighted option key, or "" if none.
func (m MultiChoice) SelectedKey() string {
	if m.cursor < 0 || m.cursor >= len(m.keys) {
		return ""
	}
	return m.keys[m.cursor]
}

// Lock freezes the options and marks the chosen and correct ones.
func (m *MultiChoice) Lock(chosen, correct string) {
	m.locked = true
	m.chosen = chosen
	m.correct = correct
}

// Locked reports whether the answer has been submitted.
func (m MultiChoice) Locked() bool { return m.locked }

// View renders the header line followed by one line per option.
func (m MultiChoice) View(width int) string {
	if m.question == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Prompt.Width(width).Render(m.question.Header()))
	b.WriteString("\n\n")

	for i, k := range m.keys {
		prefix := "  "
		if i == m.cursor && !m.locked {
			prefix = "▸ "
		}
		line := prefix + k + ". " + m.question.Options[k]

		var style lipgloss.Style
		switch {
		case m.locked && k == m.correct:
			style = theme.Correct
		case m.locked && k == m.chosen:
			style = theme.Incorrect
		case m.locked:
			style = theme.Dimmed
		case i == m.cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
