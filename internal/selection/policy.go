package selection

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/wangchingta/exam-site/internal/bank"
)

// ErrNoQuestions is returned when there is nothing to pick from.
var ErrNoQuestions = errors.New("selection: no questions to choose from")

// Policy names accepted by ByName.
const (
	NameWeighted   = "weighted"
	NameLeastShown = "least-shown"
)

// Rand is the randomness a policy needs. *rand.Rand from math/rand/v2
// satisfies it; tests substitute a fixed sequence.
type Rand interface {
	IntN(n int) int
}

// Stats exposes the counters a policy reads.
type Stats interface {
	Show(id bank.ID) int
	Wrong(id bank.ID) int
}

// Policy picks the next fresh question to append to history. Policies only
// choose; recording the display is the caller's job.
type Policy interface {
	Pick(questions []*bank.Question, st Stats) (*bank.Question, error)
	Name() string
}

// Names lists the available policies.
func Names() []string {
	return []string{NameWeighted, NameLeastShown}
}

// ByName builds the named policy around rnd.
func ByName(name string, rnd Rand) (Policy, error) {
	switch name {
	case NameWeighted, "":
		return NewWeighted(rnd), nil
	case NameLeastShown:
		return NewLeastShown(rnd), nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q", name)
	}
}

// NewRand returns a PCG-backed source. A zero seed seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Weighted favors questions that are often missed and rarely shown:
// weight = (wrong+1)/(show+1). Every question whose weight equals the
// maximum exactly is a candidate, and one is drawn uniformly.
type Weighted struct {
	rnd Rand
}

// NewWeighted creates the weighted-priority policy.
func NewWeighted(rnd Rand) *Weighted {
	return &Weighted{rnd: rnd}
}

func (p *Weighted) Name() string { return NameWeighted }

func (p *Weighted) Pick(questions []*bank.Question, st Stats) (*bank.Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var (
		candidates []*bank.Question
		bestNum    int64
		bestDen    int64
	)
	for _, q := range questions {
		num := int64(st.Wrong(q.ID)) + 1
		den := int64(st.Show(q.ID)) + 1
		if candidates == nil {
			candidates = []*bank.Question{q}
			bestNum, bestDen = num, den
			continue
		}
		switch compareRatio(num, den, bestNum, bestDen) {
		case 1:
			candidates = append(candidates[:0], q)
			bestNum, bestDen = num, den
		case 0:
			candidates = append(candidates, q)
		}
	}
	return candidates[p.rnd.IntN(len(candidates))], nil
}

// compareRatio compares a/b with c/d exactly. Denominators are positive.
func compareRatio(a, b, c, d int64) int {
	l, r := a*d, c*b
	switch {
	case l > r:
		return 1
	case l < r:
		return -1
	default:
		return 0
	}
}

// LeastShown draws uniformly among the questions with the lowest show count.
type LeastShown struct {
	rnd Rand
}

// NewLeastShown creates the least-shown policy.
func NewLeastShown(rnd Rand) *LeastShown {
	return &LeastShown{rnd: rnd}
}

func (p *LeastShown) Name() string { return NameLeastShown }

func (p *LeastShown) Pick(questions []*bank.Question, st Stats) (*bank.Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var candidates []*bank.Question
	minShow := 0
	for _, q := range questions {
		n := st.Show(q.ID)
		switch {
		case candidates == nil || n < minShow:
			candidates = append(candidates[:0], q)
			minShow = n
		case n == minShow:
			candidates = append(candidates, q)
		}
	}
	return candidates[p.rnd.IntN(len(candidates))], nil
}
