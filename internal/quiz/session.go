// Package quiz drives a single quiz session: it picks questions, keeps the
// navigation history, scores answers and persists progress after every
// state change.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/history"
	"github.com/wangchingta/exam-site/internal/selection"
	"github.com/wangchingta/exam-site/internal/stats"
	"github.com/wangchingta/exam-site/internal/store"
)

var (
	ErrNotStarted      = errors.New("quiz: session not started")
	ErrAtHead          = errors.New("quiz: already at the first question")
	ErrNoSelection     = errors.New("quiz: no option selected")
	ErrUnknownOption   = errors.New("quiz: not an option of the current question")
	ErrAlreadyAnswered = errors.New("quiz: question already answered")

	// ErrPersist marks a failed storage write. The in-memory change it
	// accompanies has still been applied.
	ErrPersist = errors.New("quiz: progress not saved")
)

// Renderer shows a question. It is called exactly once per successful
// advance or retreat, and once when a session is restored.
type Renderer interface {
	DisplayQuestion(q *bank.Question)
}

// Repo is the persistence the session needs.
type Repo interface {
	stats.Sink
	LoadSnapshot(ctx context.Context) (*store.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap store.Snapshot) error
	LoadCounts(ctx context.Context, key string) (map[string]any, error)
}

// Options configures a Session.
type Options struct {
	Bank     *bank.Bank
	Repo     Repo
	Policy   selection.Policy // defaults to weighted, time-seeded
	Renderer Renderer         // may be nil
	Logger   zerolog.Logger
}

// Result is the outcome of a submitted answer.
type Result struct {
	Question    *bank.Question
	SelectedKey string
	CorrectKey  string
	CorrectText string
	Correct     bool
}

// Session is the quiz state machine. It is not safe for concurrent use;
// the UI event loop is its only caller.
type Session struct {
	bank     *bank.Bank
	repo     Repo
	policy   selection.Policy
	renderer Renderer
	log      zerolog.Logger

	counters *stats.Counters
	hist     *history.History
	answered bool
	last     *Result
	restored bool
}

// New validates opts and returns an unstarted session.
func New(opts Options) (*Session, error) {
	if opts.Bank == nil || opts.Bank.Len() == 0 {
		return nil, bank.ErrEmptyBank
	}
	if opts.Repo == nil {
		return nil, errors.New("quiz: no repo configured")
	}
	policy := opts.Policy
	if policy == nil {
		policy = selection.NewWeighted(selection.NewRand(0))
	}
	return &Session{
		bank:     opts.Bank,
		repo:     opts.Repo,
		policy:   policy,
		renderer: opts.Renderer,
		log:      opts.Logger,
	}, nil
}

// SetRenderer replaces the renderer. The TUI is built after the session,
// so it attaches itself here.
func (s *Session) SetRenderer(r Renderer) { s.renderer = r }

// Start loads counters and the saved position. A snapshot whose ids all
// exist in the bank and whose index is in range is restored and rendered
// without selecting anything. Otherwise a fresh question is served.
//
// Read failures are returned as-is. Write failures wrap ErrPersist and
// leave the session usable.
func (s *Session) Start(ctx context.Context) error {
	questions := s.bank.Questions()

	show, err := s.loadCounts(ctx, store.KeyShowCounts)
	if err != nil {
		return err
	}
	wrong, err := s.loadCounts(ctx, store.KeyWrongCounts)
	if err != nil {
		return err
	}
	s.counters = stats.Init(questions, show, wrong, s.repo)

	var errs []error
	if err := s.counters.Flush(ctx); err != nil {
		errs = append(errs, err)
	}

	snap, err := s.repo.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, store.ErrMalformedState):
		s.log.Warn().Err(err).Msg("discarding saved position")
		snap = nil
	case err != nil:
		return fmt.Errorf("load position: %w", err)
	}

	if h := s.restore(snap); h != nil {
		s.hist = h
		s.restored = true
		s.answered, s.last = false, nil
		s.log.Info().
			Int("history", h.Len()).
			Int("cursor", h.Cursor()).
			Msg("session restored")
		s.render()
		return s.persistErr(errs...)
	}

	s.hist = history.New()
	s.restored = false
	s.log.Info().Int("questions", len(questions)).Str("policy", s.policy.Name()).Msg("session started")
	if err := s.Advance(ctx); err != nil {
		if !errors.Is(err, ErrPersist) {
			return err
		}
		errs = append(errs, err)
	}
	return s.persistErr(errs...)
}

func (s *Session) loadCounts(ctx context.Context, key string) (map[string]any, error) {
	m, err := s.repo.LoadCounts(ctx, key)
	if errors.Is(err, store.ErrMalformedState) {
		s.log.Warn().Err(err).Str("key", key).Msg("resetting malformed counters")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return m, nil
}

// restore resolves a snapshot against the bank, or returns nil when it
// cannot be used as-is.
func (s *Session) restore(snap *store.Snapshot) *history.History {
	if snap == nil || len(snap.HistoryIDs) == 0 {
		return nil
	}
	entries := make([]*bank.Question, 0, len(snap.HistoryIDs))
	for _, id := range snap.HistoryIDs {
		q, ok := s.bank.Lookup(id)
		if !ok {
			s.log.Warn().Str("id", string(id)).Msg("saved position names an unknown question, starting fresh")
			return nil
		}
		entries = append(entries, q)
	}
	h, err := history.Restore(entries, snap.CurrentIndex)
	if err != nil {
		s.log.Warn().Err(err).Int("index", snap.CurrentIndex).Msg("saved position out of range, starting fresh")
		return nil
	}
	return h
}

// Advance moves forward. Inside history it replays the next entry;
// at the tail it selects a new question and counts it as shown.
func (s *Session) Advance(ctx context.Context) error {
	if s.hist == nil {
		return ErrNotStarted
	}

	var errs []error
	if s.hist.HasNext() {
		s.hist.Forward()
	} else {
		q, err := s.policy.Pick(s.bank.Questions(), s.counters)
		if err != nil {
			return fmt.Errorf("select question: %w", err)
		}
		if err := s.counters.RecordShown(ctx, q.ID); err != nil {
			errs = append(errs, err)
		}
		s.hist.Append(q)
		s.log.Debug().Str("id", string(q.ID)).Int("show", s.counters.Show(q.ID)).Msg("question selected")
	}

	s.answered, s.last = false, nil
	s.render()
	if err := s.saveSnapshot(ctx); err != nil {
		errs = append(errs, err)
	}
	return s.persistErr(errs...)
}

// Retreat moves back one entry. At the first entry it returns ErrAtHead
// and changes nothing.
func (s *Session) Retreat(ctx context.Context) error {
	if s.hist == nil {
		return ErrNotStarted
	}
	if !s.hist.Back() {
		return ErrAtHead
	}
	s.answered, s.last = false, nil
	s.render()
	return s.persistErr(s.saveSnapshot(ctx))
}

// Submit scores key against the current question. A wrong answer is
// counted; history and cursor never change.
func (s *Session) Submit(ctx context.Context, key string) (*Result, error) {
	if s.hist == nil || s.hist.Empty() {
		return nil, ErrNotStarted
	}
	if s.answered {
		return nil, ErrAlreadyAnswered
	}
	if key == "" {
		return nil, ErrNoSelection
	}
	q := s.hist.Current()
	if !q.HasOption(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}

	res := &Result{
		Question:    q,
		SelectedKey: key,
		CorrectKey:  q.CorrectKey,
		CorrectText: q.CorrectText(),
		Correct:     key == q.CorrectKey,
	}

	var errs []error
	if !res.Correct {
		if err := s.counters.RecordWrong(ctx, q.ID); err != nil {
			errs = append(errs, err)
		}
	}
	s.answered, s.last = true, res
	s.log.Debug().Str("id", string(q.ID)).Bool("correct", res.Correct).Msg("answer submitted")

	if err := s.saveSnapshot(ctx); err != nil {
		errs = append(errs, err)
	}
	return res, s.persistErr(errs...)
}

func (s *Session) render() {
	if s.renderer != nil {
		s.renderer.DisplayQuestion(s.hist.Current())
	}
}

func (s *Session) saveSnapshot(ctx context.Context) error {
	if err := s.repo.SaveSnapshot(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("persist position: %w", err)
	}
	return nil
}

// persistErr logs and wraps write failures. nil entries are ignored.
func (s *Session) persistErr(errs ...error) error {
	err := errors.Join(errs...)
	if err == nil {
		return nil
	}
	s.log.Error().Err(err).Msg("storage write failed")
	return fmt.Errorf("%w: %w", ErrPersist, err)
}
