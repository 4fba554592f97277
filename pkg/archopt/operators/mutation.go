package operators

import (
	"math"
	"math/rand/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// PolynomialMutation perturbs variables following a polynomial distribution
// with index Eta, truncated to the bounds. ProbVar defaults to
// min(0.5, 1/nVar) if zero. With Round, values are rounded to integers.
type PolynomialMutation struct {
	Eta     float64
	Prob    float64
	ProbVar float64
	Round   bool
}

func NewPolynomialMutation(round bool) *PolynomialMutation {
	return &PolynomialMutation{Eta: 20, Prob: 1, Round: round}
}

func (m *PolynomialMutation) Do(rng *rand.Rand, sub SubProblem, x framework.Matrix) framework.Matrix {
	out := x.Clone()
	probVar := m.ProbVar
	if probVar <= 0 {
		probVar = defaultProbVar(sub.NVar())
	}
	for _, row := range out {
		if rng.Float64() < m.Prob {
			for j := range row {
				if rng.Float64() >= probVar || sub.Upper[j] <= sub.Lower[j] {
					continue
				}
				row[j] = m.mutateVar(rng, row[j], sub.Lower[j], sub.Upper[j])
			}
		}
		if m.Round {
			roundClip(row, sub.Lower, sub.Upper)
		}
	}
	return out
}

func (m *PolynomialMutation) mutateVar(rng *rand.Rand, y, xl, xu float64) float64 {
	span := xu - xl
	delta1 := (y - xl) / span
	delta2 := (xu - y) / span
	mutPow := 1 / (m.Eta + 1)

	var deltaQ float64
	if r := rng.Float64(); r <= 0.5 {
		xy := 1 - delta1
		val := 2*r + (1-2*r)*math.Pow(xy, m.Eta+1)
		deltaQ = math.Pow(val, mutPow) - 1
	} else {
		xy := 1 - delta2
		val := 2*(1-r) + 2*(r-0.5)*math.Pow(xy, m.Eta+1)
		deltaQ = 1 - math.Pow(val, mutPow)
	}
	return clip(y+deltaQ*span, xl, xu)
}

// BitflipMutation flips binary variables.
type BitflipMutation struct {
	Prob    float64
	ProbVar float64
}

func NewBitflipMutation() *BitflipMutation {
	return &BitflipMutation{Prob: 1}
}

func (m *BitflipMutation) Do(rng *rand.Rand, sub SubProblem, x framework.Matrix) framework.Matrix {
	out := x.Clone()
	probVar := m.ProbVar
	if probVar <= 0 {
		probVar = defaultProbVar(sub.NVar())
	}
	for _, row := range out {
		if rng.Float64() >= m.Prob {
			continue
		}
		for j := range row {
			if rng.Float64() < probVar {
				row[j] = 1 - row[j]
			}
		}
	}
	return out
}

// ChoiceRandomMutation resets categorical variables to a random option.
type ChoiceRandomMutation struct {
	Prob    float64
	ProbVar float64
}

func NewChoiceRandomMutation() *ChoiceRandomMutation {
	return &ChoiceRandomMutation{Prob: 1}
}

func (m *ChoiceRandomMutation) Do(rng *rand.Rand, sub SubProblem, x framework.Matrix) framework.Matrix {
	out := x.Clone()
	probVar := m.ProbVar
	if probVar <= 0 {
		probVar = defaultProbVar(sub.NVar())
	}
	for _, row := range out {
		if rng.Float64() >= m.Prob {
			continue
		}
		for j, v := range sub.Space {
			if n := v.NOptions(); n > 0 && rng.Float64() < probVar {
				row[j] = v.Lower + float64(rng.IntN(n))
			}
		}
	}
	return out
}
