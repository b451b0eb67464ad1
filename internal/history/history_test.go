package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangchingta/exam-site/internal/bank"
)

func q(id bank.ID) *bank.Question {
	return &bank.Question{ID: id, Prompt: "p", Options: map[string]string{"A": "a", "B": "b"}, CorrectKey: "A"}
}

func TestNew_Empty(t *testing.T) {
	h := New()

	assert.True(t, h.Empty())
	assert.Equal(t, -1, h.Cursor())
	assert.Nil(t, h.Current())
	assert.False(t, h.HasNext())
	assert.True(t, h.AtHead())
	assert.False(t, h.Forward())
	assert.False(t, h.Back())
	assert.Empty(t, h.IDs())
}

func TestAppendAndNavigate(t *testing.T) {
	h := New()
	q1, q2, q3 := q("1"), q("2"), q("3")

	h.Append(q1)
	assert.Equal(t, 0, h.Cursor())
	assert.Same(t, q1, h.Current())
	assert.True(t, h.AtHead())

	h.Append(q2)
	h.Append(q3)
	assert.Equal(t, 2, h.Cursor())
	assert.False(t, h.HasNext())

	require.True(t, h.Back())
	require.True(t, h.Back())
	assert.Same(t, q1, h.Current())
	assert.False(t, h.Back(), "cannot move before the head")
	assert.Equal(t, 0, h.Cursor())

	require.True(t, h.Forward())
	assert.Same(t, q2, h.Current())
	assert.True(t, h.HasNext())

	assert.Equal(t, []bank.ID{"1", "2", "3"}, h.IDs())
	assert.Equal(t, 3, h.Len())
}

func TestAppend_FromMiddleGoesToTail(t *testing.T) {
	h := New()
	h.Append(q("1"))
	h.Append(q("2"))
	h.Back()

	h.Append(q("3"))
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, []bank.ID{"1", "2", "3"}, h.IDs(), "entries are never spliced")
}

func TestRestore(t *testing.T) {
	entries := []*bank.Question{q("1"), q("2")}

	h, err := Restore(entries, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Cursor())
	assert.Equal(t, bank.ID("2"), h.Current().ID)

	entries[0] = q("x")
	assert.Equal(t, bank.ID("1"), h.IDs()[0], "restore copies the slice")
}

func TestRestore_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []*bank.Question
		cursor  int
	}{
		{"cursor past end", []*bank.Question{q("1"), q("2")}, 5},
		{"cursor equals length", []*bank.Question{q("1"), q("2")}, 2},
		{"negative cursor", []*bank.Question{q("1")}, -1},
		{"no entries", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(tt.entries, tt.cursor)
			assert.ErrorIs(t, err, ErrCursorOutOfRange)
		})
	}
}
