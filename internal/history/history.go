package history

import (
	"errors"
	"fmt"

	"github.com/wangchingta/exam-site/internal/bank"
)

// ErrCursorOutOfRange is returned by Restore when the cursor does not point
// into the restored entries.
var ErrCursorOutOfRange = errors.New("history: cursor out of range")

// History is the ordered log of questions served this session plus a cursor
// into it. It only grows at the tail; moving the cursor never reorders it.
type History struct {
	entries []*bank.Question
	cursor  int // -1 while empty
}

// New returns an empty history.
func New() *History {
	return &History{cursor: -1}
}

// Restore rebuilds a history from previously served questions. The cursor
// must index into entries.
func Restore(entries []*bank.Question, cursor int) (*History, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrCursorOutOfRange)
	}
	if cursor < 0 || cursor >= len(entries) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, cursor, len(entries))
	}
	return &History{
		entries: append([]*bank.Question(nil), entries...),
		cursor:  cursor,
	}, nil
}

func (h *History) Len() int    { return len(h.entries) }
func (h *History) Cursor() int { return h.cursor }
func (h *History) Empty() bool { return len(h.entries) == 0 }

// Current returns the question under the cursor, or nil when empty.
func (h *History) Current() *bank.Question {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return nil
	}
	return h.entries[h.cursor]
}

// HasNext reports whether an already-served question lies ahead of the cursor.
func (h *History) HasNext() bool {
	return h.cursor < len(h.entries)-1
}

// AtHead reports whether the cursor cannot move back.
func (h *History) AtHead() bool {
	return h.cursor <= 0
}

// Forward moves the cursor one step toward the tail.
func (h *History) Forward() bool {
	if !h.HasNext() {
		return false
	}
	h.cursor++
	return true
}

// Back moves the cursor one step toward the head.
func (h *History) Back() bool {
	if h.AtHead() {
		return false
	}
	h.cursor--
	return true
}

// Append adds a freshly served question and moves the cursor onto it.
func (h *History) Append(q *bank.Question) {
	h.entries = append(h.entries, q)
	h.cursor = len(h.entries) - 1
}

// IDs returns the ids of every entry in order.
func (h *History) IDs() []bank.ID {
	ids := make([]bank.ID, len(h.entries))
	for i, q := range h.entries {
		ids[i] = q.ID
	}
	return ids
}
