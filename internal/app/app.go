package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/quiz"
	"github.com/wangchingta/exam-site/internal/router"
	"github.com/wangchingta/exam-site/internal/screen"
	quizscreen "github.com/wangchingta/exam-site/internal/screens/quiz"
	"github.com/wangchingta/exam-site/internal/selection"
	"github.com/wangchingta/exam-site/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(root screen.Screen) AppModel {
	return AppModel{router: router.New(root)}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.router.Pop()
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Options are the collaborators Run wires together.
type Options struct {
	Bank   *bank.Bank
	Repo   quiz.Repo
	Policy selection.Policy
	Logger zerolog.Logger
}

// Run starts the session and then the TUI. Anything that prevents the
// session from starting is returned before the terminal is taken over.
func Run(ctx context.Context, opts Options) error {
	session, err := quiz.New(quiz.Options{
		Bank:   opts.Bank,
		Repo:   opts.Repo,
		Policy: opts.Policy,
		Logger: opts.Logger,
	})
	if err != nil {
		return err
	}

	root := quizscreen.New(ctx, session)
	if err := session.Start(ctx); err != nil {
		if !errors.Is(err, quiz.ErrPersist) {
			return fmt.Errorf("start session: %w", err)
		}
		root.SetNotice("Progress could not be saved; see the log.")
	}

	p := tea.NewProgram(newAppModel(root), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
