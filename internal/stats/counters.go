package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"maps"

	"github.com/wangchingta/exam-site/internal/bank"
)

// Sink persists whole counter mappings. Each call replaces the stored
// mapping in full.
type Sink interface {
	SaveShowCounts(ctx context.Context, counts map[bank.ID]int) error
	SaveWrongCounts(ctx context.Context, counts map[bank.ID]int) error
}

// Counters holds the per-question show and wrong counts for the current
// bank. It is owned by a single session and is not safe for concurrent use.
type Counters struct {
	show  map[bank.ID]int
	wrong map[bank.ID]int
	sink  Sink
}

// Init reconciles restored counter mappings against the bank. Restored
// values are raw decoded JSON; nil means nothing was stored. Entries that
// are not non-negative integers count as missing, every bank id missing
// from a mapping starts at 0, and ids no longer in the bank are dropped.
// Init never fails and gives the same result for the same inputs.
//
// sink may be nil, in which case Record* only update memory.
func Init(questions []*bank.Question, restoredShow, restoredWrong map[string]any, sink Sink) *Counters {
	return &Counters{
		show:  reconcile(questions, restoredShow),
		wrong: reconcile(questions, restoredWrong),
		sink:  sink,
	}
}

func reconcile(questions []*bank.Question, restored map[string]any) map[bank.ID]int {
	out := make(map[bank.ID]int, len(questions))
	for _, q := range questions {
		n, ok := normalize(restored[string(q.ID)])
		if !ok {
			n = 0
		}
		out[q.ID] = n
	}
	return out
}

// maxExactCount is the largest whole number a float64 holds exactly.
const maxExactCount = 1 << 53

// normalize accepts the numeric shapes a decoder may produce and rejects
// anything that is not a non-negative whole number.
func normalize(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n >= 0
	case int64:
		return int(n), n >= 0 && n <= math.MaxInt
	case float64:
		if n < 0 || n != math.Trunc(n) || n > maxExactCount {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return normalize(i)
	default:
		return 0, false
	}
}

// Show returns how many times id has been freshly served.
func (c *Counters) Show(id bank.ID) int { return c.show[id] }

// Wrong returns how many incorrect answers id has received.
func (c *Counters) Wrong(id bank.ID) int { return c.wrong[id] }

// Weight is the selection priority (wrong+1)/(show+1).
func (c *Counters) Weight(id bank.ID) float64 {
	return float64(c.wrong[id]+1) / float64(c.show[id]+1)
}

// ShowCounts returns a copy of the show-count mapping.
func (c *Counters) ShowCounts() map[bank.ID]int { return maps.Clone(c.show) }

// WrongCounts returns a copy of the wrong-count mapping.
func (c *Counters) WrongCounts() map[bank.ID]int { return maps.Clone(c.wrong) }

// RecordShown counts a fresh display of id and persists the show mapping.
func (c *Counters) RecordShown(ctx context.Context, id bank.ID) error {
	c.show[id]++
	if c.sink == nil {
		return nil
	}
	if err := c.sink.SaveShowCounts(ctx, c.ShowCounts()); err != nil {
		return fmt.Errorf("persist show counts: %w", err)
	}
	return nil
}

// RecordWrong counts an incorrect answer for id and persists the wrong mapping.
func (c *Counters) RecordWrong(ctx context.Context, id bank.ID) error {
	c.wrong[id]++
	if c.sink == nil {
		return nil
	}
	if err := c.sink.SaveWrongCounts(ctx, c.WrongCounts()); err != nil {
		return fmt.Errorf("persist wrong counts: %w", err)
	}
	return nil
}

// Flush writes both mappings, replacing whatever was stored.
func (c *Counters) Flush(ctx context.Context) error {
	if c.sink == nil {
		return nil
	}
	if err := c.sink.SaveShowCounts(ctx, c.ShowCounts()); err != nil {
		return fmt.Errorf("persist show counts: %w", err)
	}
	if err := c.sink.SaveWrongCounts(ctx, c.WrongCounts()); err != nil {
		return fmt.Errorf("persist wrong counts: %w", err)
	}
	return nil
}
