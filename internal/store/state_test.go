package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangchingta/exam-site/internal/bank"
)

func TestStateRepo_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepo(NewMemory())

	snap, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "absent snapshot")

	want := Snapshot{HistoryIDs: []bank.ID{"3", "1", "3"}, CurrentIndex: 1}
	require.NoError(t, repo.SaveSnapshot(ctx, want))

	got, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStateRepo_SnapshotWireFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewStateRepo(kv)

	require.NoError(t, repo.SaveSnapshot(ctx, Snapshot{CurrentIndex: -1}))
	raw, err := kv.Get(ctx, KeyState)
	require.NoError(t, err)
	assert.JSONEq(t, `{"historyIds":[],"currentIndex":-1}`, string(raw))
}

func TestStateRepo_NumericIDsInSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, KeyState, []byte(`{"historyIds":[2,"5"],"currentIndex":0}`)))

	snap, err := NewStateRepo(kv).LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bank.ID{"2", "5"}, snap.HistoryIDs)
}

func TestStateRepo_MalformedSnapshot(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"array", `[1,2]`},
		{"missing index", `{"historyIds":["1"]}`},
		{"missing ids", `{"currentIndex":0}`},
		{"string index", `{"historyIds":["1"],"currentIndex":"0"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemory()
			require.NoError(t, kv.Set(ctx, KeyState, []byte(tt.raw)))

			snap, err := NewStateRepo(kv).LoadSnapshot(ctx)
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, ErrMalformedState)
		})
	}
}

func TestStateRepo_Counts(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewStateRepo(kv)

	m, err := repo.LoadCounts(ctx, KeyShowCounts)
	require.NoError(t, err)
	assert.Nil(t, m)

	require.NoError(t, repo.SaveShowCounts(ctx, map[bank.ID]int{"2": 4, "1": 0}))
	raw, err := kv.Get(ctx, KeyShowCounts)
	require.NoError(t, err)
	assert.Equal(t, `{"1":0,"2":4}`, string(raw), "keys are sorted")

	m, err = repo.LoadCounts(ctx, KeyShowCounts)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": float64(0), "2": float64(4)}, m)

	require.NoError(t, kv.Set(ctx, KeyWrongCounts, []byte(`"nope"`)))
	_, err = repo.LoadCounts(ctx, KeyWrongCounts)
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestStateRepo_Reset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewStateRepo(kv)

	seed := func() {
		require.NoError(t, repo.SaveSnapshot(ctx, Snapshot{HistoryIDs: []bank.ID{"1"}}))
		require.NoError(t, repo.SaveShowCounts(ctx, map[bank.ID]int{"1": 1}))
		require.NoError(t, repo.SaveWrongCounts(ctx, map[bank.ID]int{"1": 1}))
	}

	seed()
	require.NoError(t, repo.Reset(ctx, false))
	_, err := kv.Get(ctx, KeyState)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = kv.Get(ctx, KeyShowCounts)
	assert.NoError(t, err, "counters kept")

	seed()
	require.NoError(t, repo.Reset(ctx, true))
	for _, k := range Keys() {
		_, err := kv.Get(ctx, k)
		assert.ErrorIs(t, err, ErrNotFound, k)
	}
}

type failingKV struct{ *Memory }

var errDisk = errors.New("disk full")

func (failingKV) Set(context.Context, string, []byte) error { return errDisk }

func TestStateRepo_WriteFailure(t *testing.T) {
	repo := NewStateRepo(failingKV{NewMemory()})
	err := repo.SaveWrongCounts(context.Background(), map[bank.ID]int{"1": 1})
	assert.ErrorIs(t, err, errDisk)
	assert.ErrorContains(t, err, "save wrongCounts")
}
