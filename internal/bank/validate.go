package bank

import (
	"errors"
	"fmt"
)

// ErrEmptyBank means the bank holds no questions. A session cannot start
// without at least one.
var ErrEmptyBank = errors.New("question bank is empty")

// MinOptions is the fewest options a question may offer.
const MinOptions = 2

// ValidationError describes why a question in the bank was rejected.
type ValidationError struct {
	Index   int // position of the question in the bank file
	ID      ID
	Message string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("question #%d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("question #%d (id %s): %s", e.Index, e.ID, e.Message)
}

// Validate checks bank-level invariants: non-empty, unique ids, and every
// correct key present among the question's options.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptyBank
	}

	seen := make(map[ID]int, len(questions))
	for i, q := range questions {
		fail := func(format string, args ...any) error {
			return &ValidationError{Index: i, ID: q.ID, Message: fmt.Sprintf(format, args...)}
		}

		if q.ID == "" {
			return fail("missing id")
		}
		if prev, dup := seen[q.ID]; dup {
			return fail("duplicate id (first seen at #%d)", prev)
		}
		seen[q.ID] = i

		if q.Prompt == "" {
			return fail("empty question text")
		}
		if len(q.Options) < MinOptions {
			return fail("needs at least %d options, has %d", MinOptions, len(q.Options))
		}
		for key := range q.Options {
			if key == "" {
				return fail("empty option key")
			}
		}
		if !q.HasOption(q.CorrectKey) {
			return fail("answer %q is not one of the options", q.CorrectKey)
		}
	}
	return nil
}
