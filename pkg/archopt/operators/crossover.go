package operators

import (
	"math"
	"math/rand/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// DefaultCrossoverProb is the probability a mating is recombined at all.
const DefaultCrossoverProb = 0.9

// UniformCrossover exchanges every variable between the two parents with
// probability 0.5.
type UniformCrossover struct {
	Prob float64
}

func NewUniformCrossover() *UniformCrossover {
	return &UniformCrossover{Prob: DefaultCrossoverProb}
}

func (c *UniformCrossover) NParents() int   { return 2 }
func (c *UniformCrossover) NOffspring() int { return 2 }

func (c *UniformCrossover) Do(rng *rand.Rand, sub SubProblem, matings []framework.Matrix) framework.Matrix {
	off := framework.NewMatrix(2*len(matings), sub.NVar())
	for k, parents := range matings {
		c1, c2 := off[2*k], off[2*k+1]
		copy(c1, parents[0])
		copy(c2, parents[1])
		if rng.Float64() >= c.Prob {
			continue
		}
		for j := range c1 {
			if rng.Float64() < 0.5 {
				c1[j], c2[j] = c2[j], c1[j]
			}
		}
	}
	return off
}

// SBX is the bounded simulated binary crossover of Deb and Agrawal. Children
// are spread around their parents following a polynomial distribution with
// index Eta, truncated to the bounds. With Round, children are rounded to
// integers, so it can be used for integer variables.
type SBX struct {
	Eta  float64
	Prob float64
	// ProbVar is the probability a variable is recombined.
	ProbVar float64
	// ProbBin is the probability the children exchange a recombined variable.
	ProbBin float64
	Round   bool
}

func NewSBX(round bool) *SBX {
	return &SBX{Eta: 15, Prob: DefaultCrossoverProb, ProbVar: 0.5, ProbBin: 0.5, Round: round}
}

func (c *SBX) NParents() int   { return 2 }
func (c *SBX) NOffspring() int { return 2 }

func (c *SBX) Do(rng *rand.Rand, sub SubProblem, matings []framework.Matrix) framework.Matrix {
	off := framework.NewMatrix(2*len(matings), sub.NVar())
	for k, parents := range matings {
		c1, c2 := off[2*k], off[2*k+1]
		copy(c1, parents[0])
		copy(c2, parents[1])
		if rng.Float64() < c.Prob {
			for j := range c1 {
				if rng.Float64() >= c.ProbVar {
					continue
				}
				c1[j], c2[j] = c.crossVar(rng, c1[j], c2[j], sub.Lower[j], sub.Upper[j])
			}
		}
		if c.Round {
			roundClip(c1, sub.Lower, sub.Upper)
			roundClip(c2, sub.Lower, sub.Upper)
		}
	}
	return off
}

func (c *SBX) crossVar(rng *rand.Rand, x1, x2, xl, xu float64) (float64, float64) {
	if math.Abs(x1-x2) <= 1e-14 || xu <= xl {
		return x1, x2
	}
	y1, y2 := math.Min(x1, x2), math.Max(x1, x2)
	delta := y2 - y1
	r := rng.Float64()

	beta := 1 + 2*(y1-xl)/delta
	alpha := 2 - math.Pow(beta, -(c.Eta+1))
	c1 := 0.5 * ((y1 + y2) - c.betaQ(r, alpha)*delta)

	beta = 1 + 2*(xu-y2)/delta
	alpha = 2 - math.Pow(beta, -(c.Eta+1))
	c2 := 0.5 * ((y1 + y2) + c.betaQ(r, alpha)*delta)

	if rng.Float64() < c.ProbBin {
		c1, c2 = c2, c1
	}
	// Keep children on the side of the parent they came from
	if x1 > x2 {
		c1, c2 = c2, c1
	}
	return clip(c1, xl, xu), clip(c2, xl, xu)
}

func (c *SBX) betaQ(r, alpha float64) float64 {
	if r <= 1/alpha {
		return math.Pow(r*alpha, 1/(c.Eta+1))
	}
	return math.Pow(1/(2-r*alpha), 1/(c.Eta+1))
}
