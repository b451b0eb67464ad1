package bank

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ID identifies a question within a bank. Bank files may spell ids as JSON
// numbers or strings; 7 and "7" name the same question.
type ID string

// UnmarshalJSON accepts both string and number ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("question id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Question is a single multiple-choice item. Questions are immutable once
// loaded and shared read-only by every other package.
type Question struct {
	ID         ID                `json:"id"`
	Prompt     string            `json:"question"`
	Options    map[string]string `json:"options"`
	CorrectKey string            `json:"answer"`
}

// OptionKeys returns the option keys in render order.
func (q *Question) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasOption reports whether key is one of the question's options.
func (q *Question) HasOption(key string) bool {
	_, ok := q.Options[key]
	return ok
}

// CorrectText returns the text of the correct option.
func (q *Question) CorrectText() string {
	return q.Options[q.CorrectKey]
}

// Header renders the question line as "<id>. <prompt>".
func (q *Question) Header() string {
	return fmt.Sprintf("%s. %s", q.ID, q.Prompt)
}

// Bank is the immutable, ordered question list for a session.
type Bank struct {
	questions []*Question
	byID      map[ID]*Question
}

// New validates questions and builds a Bank preserving their order.
func New(questions []Question) (*Bank, error) {
	if err := Validate(questions); err != nil {
		return nil, err
	}
	b := &Bank{
		questions: make([]*Question, len(questions)),
		byID:      make(map[ID]*Question, len(questions)),
	}
	for i := range questions {
		q := questions[i]
		b.questions[i] = &q
		b.byID[q.ID] = &q
	}
	return b, nil
}

// Questions returns the bank's questions in file order. Callers must not
// modify the returned slice.
func (b *Bank) Questions() []*Question {
	return b.questions
}

// Lookup resolves an id to its question.
func (b *Bank) Lookup(id ID) (*Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}
