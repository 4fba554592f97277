// Package operators holds variation operators that work on a group of
// design variables of the same type.
package operators

import (
	"math"
	"math/rand/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// SubProblem is a view on some columns of a design space.
type SubProblem struct {
	Space framework.DesignSpace
	Lower []float64
	Upper []float64
}

// NewSubProblem restricts the design space to the given columns.
func NewSubProblem(space framework.DesignSpace, columns []int) SubProblem {
	sub := space.Sub(columns)
	lower, upper := sub.Bounds()
	return SubProblem{Space: sub, Lower: lower, Upper: upper}
}

func (s SubProblem) NVar() int {
	return len(s.Space)
}

// Crossover recombines parents into offspring.
type Crossover interface {
	NParents() int
	NOffspring() int
	// Do returns NOffspring rows per mating, in mating order. Every mating
	// holds NParents rows.
	Do(rng *rand.Rand, sub SubProblem, matings []framework.Matrix) framework.Matrix
}

// Mutation perturbs design vectors. x is not modified.
type Mutation interface {
	Do(rng *rand.Rand, sub SubProblem, x framework.Matrix) framework.Matrix
}

// defaultProbVar is the per-variable mutation probability used when none is
// configured: one variable per vector on average, at most half of them.
func defaultProbVar(nVar int) float64 {
	if nVar == 0 {
		return 0
	}
	return math.Min(0.5, 1/float64(nVar))
}

// roundClip rounds the row to integers within the bounds.
func roundClip(row, lower, upper []float64) {
	for j := range row {
		row[j] = math.Min(upper[j], math.Max(lower[j], math.Round(row[j])))
	}
}

func clip(v, lower, upper float64) float64 {
	return math.Min(upper, math.Max(lower, v))
}
