package quiz

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangchingta/exam-site/internal/bank"
	qz "github.com/wangchingta/exam-site/internal/quiz"
	"github.com/wangchingta/exam-site/internal/router"
	statsscreen "github.com/wangchingta/exam-site/internal/screens/stats"
	"github.com/wangchingta/exam-site/internal/selection"
	"github.com/wangchingta/exam-site/internal/store"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T) (*QuizScreen, *qz.Session) {
	t.Helper()
	b, err := bank.New([]bank.Question{
		{ID: "1", Prompt: "Capital of France?", Options: map[string]string{"A": "Paris", "B": "Rome", "C": "Oslo"}, CorrectKey: "A"},
		{ID: "2", Prompt: "2 + 2?", Options: map[string]string{"A": "3", "B": "4"}, CorrectKey: "B"},
	})
	require.NoError(t, err)

	sess, err := qz.New(qz.Options{
		Bank:   b,
		Repo:   store.NewStateRepo(store.NewMemory()),
		Policy: selection.NewWeighted(firstRand{}),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	scr := New(ctx, sess)
	require.NoError(t, sess.Start(ctx))
	return scr, sess
}

func press(s *QuizScreen, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

func TestQuizScreen_RendersStartedQuestion(t *testing.T) {
	scr, _ := testScreen(t)

	view := scr.View(80, 20)
	assert.Contains(t, view, "1. Capital of France?")
	assert.Contains(t, view, "A. Paris")
	assert.Contains(t, view, "C. Oslo")
	assert.Equal(t, "Q 1/1", scr.Status())
}

func TestQuizScreen_SubmitWithoutSelection(t *testing.T) {
	scr, sess := testScreen(t)

	press(scr, specialKey(tea.KeyEnter))

	assert.False(t, sess.Answered())
	assert.Contains(t, scr.View(80, 20), "Select an option first.")

	// Still submittable.
	press(scr, keyPress('j'), specialKey(tea.KeyEnter))
	assert.True(t, sess.Answered())
}

func TestQuizScreen_CorrectAnswer(t *testing.T) {
	scr, sess := testScreen(t)

	press(scr, keyPress('1'), specialKey(tea.KeyEnter))

	require.True(t, sess.Answered())
	assert.Contains(t, scr.View(80, 20), "Correct!")
	assert.Equal(t, 0, sess.Counters().Wrong("1"))
}

func TestQuizScreen_WrongAnswerShowsCorrectOne(t *testing.T) {
	scr, sess := testScreen(t)

	press(scr, keyPress('j'), keyPress('j'), specialKey(tea.KeyEnter))

	view := scr.View(80, 20)
	assert.Contains(t, view, "Wrong. The answer is A. Paris")
	assert.Equal(t, 1, sess.Counters().Wrong("1"))

	press(scr, specialKey(tea.KeyEnter))
	assert.Contains(t, scr.View(80, 20), "Already answered")
	assert.Equal(t, 1, sess.Counters().Wrong("1"))
}

func TestQuizScreen_NextNeedsAnswer(t *testing.T) {
	scr, sess := testScreen(t)

	press(scr, keyPress('n'))
	_, total := sess.Position()
	assert.Equal(t, 1, total)
	assert.Contains(t, scr.View(80, 20), "Answer this question first.")

	press(scr, keyPress('1'), specialKey(tea.KeyEnter), keyPress('n'))
	assert.Equal(t, "Q 2/2", scr.Status())
	assert.Contains(t, scr.View(80, 20), "2. 2 + 2?")
	assert.NotContains(t, scr.View(80, 20), "Correct!", "feedback cleared")
}

func TestQuizScreen_PreviousAndForward(t *testing.T) {
	scr, sess := testScreen(t)
	press(scr, keyPress('1'), specialKey(tea.KeyEnter), keyPress('n'))

	press(scr, specialKey(tea.KeyLeft))
	assert.Equal(t, "Q 1/2", scr.Status())
	assert.False(t, sess.CanRetreat())

	// At the head "previous" does nothing.
	press(scr, keyPress('p'))
	assert.Equal(t, "Q 1/2", scr.Status())

	// Forward through history works without answering again.
	press(scr, specialKey(tea.KeyRight))
	assert.Equal(t, "Q 2/2", scr.Status())
}

func TestQuizScreen_KeyHints(t *testing.T) {
	scr, _ := testScreen(t)

	descs := func() []string {
		var out []string
		for _, h := range scr.KeyHints() {
			out = append(out, h.Description)
		}
		return out
	}

	assert.Equal(t, []string{"Choose", "Submit", "Stats", "Quit"}, descs())
	assert.Equal(t, "↑↓/jk", scr.KeyHints()[0].Key)
	assert.Equal(t, keys.Up.Help(), keys.Down.Help())

	press(scr, keyPress('1'), specialKey(tea.KeyEnter))
	assert.Equal(t, []string{"Next", "Stats", "Quit"}, descs())

	press(scr, keyPress('n'))
	assert.Equal(t, []string{"Choose", "Submit", "Previous", "Stats", "Quit"}, descs())
}

func TestQuizScreen_StatsAndQuit(t *testing.T) {
	scr, _ := testScreen(t)

	cmd := press(scr, keyPress('s'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &statsscreen.StatsScreen{}, msg.Screen)

	cmd = press(scr, keyPress('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
