package sampling

import (
	"math/bits"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// ContinuousFill selects how continuous columns are filled after the discrete
// columns of a sample are fixed.
type ContinuousFill int

const (
	// FillUniform draws independent pseudo-random values.
	FillUniform ContinuousFill = iota
	// FillLHS uses a Latin hypercube design.
	FillLHS
	// FillLowDiscrepancy uses a scrambled Halton sequence.
	FillLowDiscrepancy
)

func (f ContinuousFill) String() string {
	switch f {
	case FillUniform:
		return "uniform"
	case FillLHS:
		return "lhs"
	case FillLowDiscrepancy:
		return "low-discrepancy"
	}
	return "unknown"
}

// maxHaltonDims is the number of primes gonum's Halton sampler knows about.
const maxHaltonDims = 1000

// unitDesign returns an n x d design in the unit hypercube.
func unitDesign(rng *rand.Rand, fill ContinuousFill, n, d int) framework.Matrix {
	switch fill {
	case FillLHS:
		return LatinHypercubeUnit(rng, n, d)
	case FillLowDiscrepancy:
		return lowDiscrepancyUnit(rng, n, d)
	default:
		return randomUnit(rng, n, d)
	}
}

func randomUnit(rng *rand.Rand, n, d int) framework.Matrix {
	x := framework.NewMatrix(n, d)
	for _, row := range x {
		for j := range row {
			row[j] = rng.Float64()
		}
	}
	return x
}

// LatinHypercubeUnit returns an n x d Latin hypercube design in the unit
// hypercube: every column has exactly one value in each of the n equal bins.
func LatinHypercubeUnit(rng *rand.Rand, n, d int) framework.Matrix {
	if n <= 0 || d <= 0 {
		return framework.NewMatrix(max(n, 0), max(d, 0))
	}
	batch := mat.NewDense(n, d, nil)
	samplemv.LatinHypercube{Q: distmv.NewUnitUniform(d, nil), Src: rng}.Sample(batch)
	return denseRows(batch, n)
}

// lowDiscrepancyUnit generates a scrambled Halton design. Points are generated
// for the next power of two, where the sequence is most balanced, and the
// first n are returned.
func lowDiscrepancyUnit(rng *rand.Rand, n, d int) framework.Matrix {
	if n <= 0 || d <= 0 {
		return framework.NewMatrix(max(n, 0), max(d, 0))
	}
	if d > maxHaltonDims {
		return randomUnit(rng, n, d)
	}
	batch := mat.NewDense(nextPow2(n), d, nil)
	samplemv.Halton{Kind: samplemv.Owen, Q: distmv.NewUnitUniform(d, nil), Src: rng}.Sample(batch)
	return denseRows(batch, n)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func denseRows(m *mat.Dense, n int) framework.Matrix {
	_, d := m.Dims()
	x := framework.NewMatrix(n, d)
	for i := range x {
		copy(x[i], m.RawRowView(i))
	}
	return x
}
