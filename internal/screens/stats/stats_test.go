package stats

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangchingta/exam-site/internal/router"
	st "github.com/wangchingta/exam-site/internal/stats"
)

func rows() []st.Row {
	return []st.Row{
		{ID: "2", Prompt: "Hard one", Show: 1, Wrong: 3, Weight: 2},
		{ID: "1", Prompt: "Easy one", Show: 3, Wrong: 0, Weight: 0.25},
	}
}

func TestStatsScreen_View(t *testing.T) {
	s := New(rows())
	view := s.View(100, 20)

	assert.Contains(t, view, "2 questions, 4 shown, 3 wrong")
	assert.Contains(t, view, "Weight")
	assert.Contains(t, view, "Hard one")
	assert.Contains(t, view, "2.00")
	assert.Contains(t, view, "0.25")
}

func TestStatsScreen_Scroll(t *testing.T) {
	s := New(rows())

	s.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	assert.Equal(t, 0, s.Offset())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.Offset())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.Offset(), "stops at the last row")
}

func TestStatsScreen_Back(t *testing.T) {
	s := New(rows())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "問題…", truncate("問題問題", 3))
}
