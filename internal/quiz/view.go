package quiz

import (
	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/stats"
	"github.com/wangchingta/exam-site/internal/store"
)

// Current returns the question under the cursor, or nil before Start.
func (s *Session) Current() *bank.Question {
	if s.hist == nil {
		return nil
	}
	return s.hist.Current()
}

// CanRetreat reports whether Retreat would move.
func (s *Session) CanRetreat() bool {
	return s.hist != nil && !s.hist.AtHead()
}

// HasNext reports whether Advance would replay history instead of
// selecting.
func (s *Session) HasNext() bool {
	return s.hist != nil && s.hist.HasNext()
}

// CanAdvance reports whether the UI should offer "next": once the current
// question is answered, or when moving forward through history.
func (s *Session) CanAdvance() bool {
	return s.answered || s.HasNext()
}

// Answered reports whether the current view has been submitted.
func (s *Session) Answered() bool { return s.answered }

// LastResult returns the result for the current view, if answered.
func (s *Session) LastResult() *Result { return s.last }

// Restored reports whether Start resumed a saved position.
func (s *Session) Restored() bool { return s.restored }

// Position returns the 1-based cursor position and the history length.
func (s *Session) Position() (pos, total int) {
	if s.hist == nil {
		return 0, 0
	}
	return s.hist.Cursor() + 1, s.hist.Len()
}

// PolicyName names the selection policy in use.
func (s *Session) PolicyName() string { return s.policy.Name() }

// Counters exposes the live counters. Callers must not record through it.
func (s *Session) Counters() *stats.Counters { return s.counters }

// Report returns the per-question statistics, highest weight first.
func (s *Session) Report() []stats.Row {
	if s.counters == nil {
		return nil
	}
	return stats.Report(s.bank.Questions(), s.counters)
}

// Snapshot returns the current position in persisted form.
func (s *Session) Snapshot() store.Snapshot {
	if s.hist == nil {
		return store.Snapshot{HistoryIDs: []bank.ID{}, CurrentIndex: -1}
	}
	return store.Snapshot{HistoryIDs: s.hist.IDs(), CurrentIndex: s.hist.Cursor()}
}
