package bot

import "math/rand"

// Brain is the interface all automated opponent strategies implement.
type Brain interface {
	// ChooseDelta picks the opponent's contribution for the given value.
	ChooseDelta(value int64) int64
}

// deltas the automated opponent may contribute.
var deltas = []int64{-1, 0, 1}

// RandomBrain picks uniformly among the allowed deltas. This is the
// contract behavior and the default strategy.
type RandomBrain struct {
	rng *rand.Rand
}

// NewRandomBrain constructs a RandomBrain over the provided rng.
func NewRandomBrain(rng *rand.Rand) *RandomBrain {
	return &RandomBrain{rng: rng}
}

func (b *RandomBrain) ChooseDelta(value int64) int64 {
	return deltas[b.rng.Intn(len(deltas))]
}

// SolverBrain prefers the delta that makes the sum divisible by three,
// falling back to a uniform pick when none qualifies.
type SolverBrain struct {
	rng *rand.Rand
}

// NewSolverBrain constructs a SolverBrain over the provided rng.
func NewSolverBrain(rng *rand.Rand) *SolverBrain {
	return &SolverBrain{rng: rng}
}

func (b *SolverBrain) ChooseDelta(value int64) int64 {
	for _, d := range deltas {
		if (value+d)%3 == 0 {
			return d
		}
	}
	return deltas[b.rng.Intn(len(deltas))]
}
