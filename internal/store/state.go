package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/stats"
)

// ErrMalformedState is returned when a stored value exists but cannot be
// decoded into the expected shape.
var ErrMalformedState = errors.New("store: malformed state")

// Snapshot is the persisted session position.
type Snapshot struct {
	HistoryIDs   []bank.ID `json:"historyIds"`
	CurrentIndex int       `json:"currentIndex"`
}

// snapshotWire detects missing fields, which a plain Snapshot would
// silently zero.
type snapshotWire struct {
	HistoryIDs   *[]bank.ID `json:"historyIds"`
	CurrentIndex *int       `json:"currentIndex"`
}

// StateRepo reads and writes the quiz's three keys over a KV.
type StateRepo struct {
	kv KV
}

var _ stats.Sink = (*StateRepo)(nil)

// NewStateRepo wraps kv.
func NewStateRepo(kv KV) *StateRepo {
	return &StateRepo{kv: kv}
}

// LoadSnapshot returns the stored snapshot, or nil if none was written.
// Values that do not decode wrap ErrMalformedState.
func (r *StateRepo) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	data, err := r.kv.Get(ctx, KeyState)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyState, err)
	}

	var w snapshotWire
	if err := decode(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedState, KeyState, err)
	}
	if w.HistoryIDs == nil || w.CurrentIndex == nil {
		return nil, fmt.Errorf("%w: %s: missing field", ErrMalformedState, KeyState)
	}
	return &Snapshot{HistoryIDs: *w.HistoryIDs, CurrentIndex: *w.CurrentIndex}, nil
}

// SaveSnapshot replaces the stored snapshot.
func (r *StateRepo) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	if snap.HistoryIDs == nil {
		snap.HistoryIDs = []bank.ID{}
	}
	return r.put(ctx, KeyState, snap)
}

// LoadCounts returns the raw counter mapping stored under key, or nil if
// absent. Values are left undecoded so the caller can normalize them.
func (r *StateRepo) LoadCounts(ctx context.Context, key string) (map[string]any, error) {
	data, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var m map[string]any
	if err := decode(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedState, key, err)
	}
	return m, nil
}

func (r *StateRepo) SaveShowCounts(ctx context.Context, counts map[bank.ID]int) error {
	return r.put(ctx, KeyShowCounts, counts)
}

func (r *StateRepo) SaveWrongCounts(ctx context.Context, counts map[bank.ID]int) error {
	return r.put(ctx, KeyWrongCounts, counts)
}

// Reset deletes the snapshot. With counters set it also deletes both
// counter mappings.
func (r *StateRepo) Reset(ctx context.Context, counters bool) error {
	keys := []string{KeyState}
	if counters {
		keys = append(keys, KeyShowCounts, KeyWrongCounts)
	}
	for _, k := range keys {
		if err := r.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("reset %s: %w", k, err)
		}
	}
	return nil
}

func (r *StateRepo) put(ctx context.Context, key string, v any) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
