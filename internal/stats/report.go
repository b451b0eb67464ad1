package stats

import (
	"sort"

	"github.com/wangchingta/exam-site/internal/bank"
)

// Row is one line of a statistics report.
type Row struct {
	ID     bank.ID
	Prompt string
	Show   int
	Wrong  int
	Weight float64
}

// Report lists every bank question with its counters, highest weight first.
// Ties keep bank order.
func Report(questions []*bank.Question, c *Counters) []Row {
	rows := make([]Row, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, Row{
			ID:     q.ID,
			Prompt: q.Prompt,
			Show:   c.Show(q.ID),
			Wrong:  c.Wrong(q.ID),
			Weight: c.Weight(q.ID),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Weight > rows[j].Weight
	})
	return rows
}

// Totals sums both counters across the report.
func Totals(rows []Row) (shown, wrong int) {
	for _, r := range rows {
		shown += r.Show
		wrong += r.Wrong
	}
	return shown, wrong
}
