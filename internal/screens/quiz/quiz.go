// Package quiz is the question screen. It renders what the session
// displays and turns key presses into session actions.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wangchingta/exam-site/internal/bank"
	qz "github.com/wangchingta/exam-site/internal/quiz"
	"github.com/wangchingta/exam-site/internal/router"
	"github.com/wangchingta/exam-site/internal/screen"
	statsscreen "github.com/wangchingta/exam-site/internal/screens/stats"
	"github.com/wangchingta/exam-site/internal/ui/components"
	"github.com/wangchingta/exam-site/internal/ui/layout"
	"github.com/wangchingta/exam-site/internal/ui/theme"
)

// QuizScreen shows the current question and its feedback.
type QuizScreen struct {
	ctx     context.Context
	session *qz.Session
	choice  components.MultiChoice
	result  *qz.Result
	notice  string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ qz.Renderer            = (*QuizScreen)(nil)
)

// New creates the screen and registers it as the session's renderer.
// ctx bounds the storage calls made on key presses.
func New(ctx context.Context, session *qz.Session) *QuizScreen {
	s := &QuizScreen{ctx: ctx, session: session}
	session.SetRenderer(s)
	if q := session.Current(); q != nil {
		s.DisplayQuestion(q)
	}
	return s
}

// DisplayQuestion resets the options for q.
func (s *QuizScreen) DisplayQuestion(q *bank.Question) {
	s.choice = components.NewMultiChoice(q)
	s.result = nil
}

// SetNotice shows msg under the options until the next key press.
func (s *QuizScreen) SetNotice(msg string) { s.notice = msg }

func (s *QuizScreen) Init() tea.Cmd { return nil }

func (s *QuizScreen) Title() string { return "Quiz" }

func (s *QuizScreen) Status() string {
	return layout.Position(s.session.Position())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	var bs []key.Binding
	if !s.session.Answered() {
		bs = append(bs, keys.Up, keys.Submit)
	}
	if s.session.CanAdvance() {
		bs = append(bs, keys.Next)
	}
	if s.session.CanRetreat() {
		bs = append(bs, keys.Prev)
	}
	bs = append(bs, keys.Stats, keys.Quit)

	hints := make([]layout.KeyHint, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	s.notice = ""

	switch {
	case key.Matches(kmsg, keys.Quit):
		return s, tea.Quit
	case key.Matches(kmsg, keys.Up):
		s.choice.Up()
	case key.Matches(kmsg, keys.Down):
		s.choice.Down()
	case key.Matches(kmsg, keys.Submit):
		s.submit()
	case key.Matches(kmsg, keys.Next):
		s.advance()
	case key.Matches(kmsg, keys.Prev):
		if s.session.CanRetreat() {
			s.report(s.session.Retreat(s.ctx))
		}
	case key.Matches(kmsg, keys.Stats):
		return s, router.Push(statsscreen.New(s.session.Report()))
	default:
		if n := digit(kmsg.Text); n > 0 {
			s.choice.ChooseIndex(n - 1)
		}
	}
	return s, nil
}

func (s *QuizScreen) submit() {
	res, err := s.session.Submit(s.ctx, s.choice.SelectedKey())
	if res != nil {
		s.result = res
		s.choice.Lock(res.SelectedKey, res.CorrectKey)
	}
	s.report(err)
}

func (s *QuizScreen) advance() {
	if !s.session.CanAdvance() {
		s.notice = "Answer this question first."
		return
	}
	s.report(s.session.Advance(s.ctx))
}

// report turns a session error into the inline notice.
func (s *QuizScreen) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, qz.ErrNoSelection):
		s.notice = "Select an option first."
	case errors.Is(err, qz.ErrAlreadyAnswered):
		s.notice = "Already answered. Press n for the next question."
	case errors.Is(err, qz.ErrUnknownOption):
		s.notice = "That is not one of the options."
	case errors.Is(err, qz.ErrPersist):
		s.notice = "Progress could not be saved; see the log."
	default:
		s.notice = err.Error()
	}
}

func digit(text string) int {
	if len(text) == 1 && text[0] >= '1' && text[0] <= '9' {
		return int(text[0] - '0')
	}
	return 0
}

func (s *QuizScreen) View(width, height int) string {
	inner := max(width-4, 10)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.choice.View(inner))

	if r := s.result; r != nil {
		b.WriteString("\n")
		if r.Correct {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render(
				fmt.Sprintf("Wrong. The answer is %s. %s", r.CorrectKey, r.CorrectText)))
		}
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render(s.notice))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(0, 2).Width(width).MaxHeight(height).Render(b.String())
}
