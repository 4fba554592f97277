package sampling

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// DefaultLHSIterations is the number of candidate samples scored by the
// hierarchical Latin hypercube sampler.
const DefaultLHSIterations = 20

// Criterion scores a sample scaled to the unit hypercube. Higher is better.
type Criterion func(xUnit framework.Matrix) float64

// MaxMinCriterion returns the smallest euclidean distance between any two
// rows, so maximizing it spreads the sample out.
func MaxMinCriterion(xUnit framework.Matrix) float64 {
	best := math.Inf(1)
	for i := range xUnit {
		for j := i + 1; j < len(xUnit); j++ {
			best = math.Min(best, floats.Distance(xUnit[i], xUnit[j], 2))
		}
	}
	return best
}

// HierarchicalLatinHypercubeSampling draws several hierarchical samples with a
// Latin hypercube fill of the continuous variables and returns the one
// scoring best on Criterion. With a nil Repair it is a plain Latin hypercube
// sample over the bounds.
type HierarchicalLatinHypercubeSampling struct {
	Repair     framework.Repair
	Iterations int
	// Criterion picks the best candidate. If nil the first one is returned.
	Criterion      Criterion
	NCombGenAllMax float64
	Enumerator     *HierarchicalExhaustiveSampling
	OnWarning      framework.WarningHandler
}

func NewHierarchicalLatinHypercubeSampling(repair framework.Repair) *HierarchicalLatinHypercubeSampling {
	if repair == nil {
		repair = framework.ArchOptRepair{}
	}
	return &HierarchicalLatinHypercubeSampling{
		Repair:         repair,
		Iterations:     DefaultLHSIterations,
		Criterion:      MaxMinCriterion,
		NCombGenAllMax: DefaultNCombGenAllMax,
	}
}

func (s *HierarchicalLatinHypercubeSampling) Name() string {
	return "HierarchicalLatinHypercubeSampling"
}

func (s *HierarchicalLatinHypercubeSampling) Sample(ctx context.Context, rng *rand.Rand, p framework.Problem, n int) (framework.Population, error) {
	if n <= 0 {
		return framework.Population{}, fmt.Errorf("%w: got %d", framework.ErrInvalidSampleCount, n)
	}
	if rng == nil {
		return framework.Population{}, ErrNoRandomSource
	}
	if s.Repair == nil {
		return plainLatinHypercube(rng, p.DesignSpace(), n), nil
	}

	random := &HierarchicalRandomSampling{
		Repair:         s.Repair,
		NCombGenAllMax: s.NCombGenAllMax,
		Enumerator:     s.Enumerator,
		OnWarning:      s.OnWarning,
	}
	xAll, isActAll, err := random.HierarchicalCartesianProduct(ctx, p)
	if err != nil {
		return framework.Population{}, err
	}

	space := p.DesignSpace()
	var best framework.Population
	bestScore := math.Inf(-1)
	for it := 0; it < max(s.Iterations, 1); it++ {
		pop, err := RandomlySample(ctx, rng, p, n, s.Repair, xAll, isActAll, FillLHS)
		if err != nil {
			return framework.Population{}, err
		}
		if s.Criterion == nil {
			return pop, nil
		}
		score := s.Criterion(unitScale(space, pop.X))
		if best.X == nil || score > bestScore {
			best, bestScore = pop, score
		}
	}
	klog.FromContext(ctx).V(5).Info("Selected Latin hypercube sample", "problem", p.Name(), "score", bestScore)
	return best, nil
}

// unitScale maps x to the unit hypercube. Variables with equal bounds map to 0.
func unitScale(space framework.DesignSpace, x framework.Matrix) framework.Matrix {
	out := framework.NewMatrix(x.Rows(), x.Cols())
	for i, row := range x {
		for j, v := range space {
			if d := v.Upper - v.Lower; d > 0 {
				out[i][j] = (row[j] - v.Lower) / d
			}
		}
	}
	return out
}

// plainLatinHypercube samples the bounds without regard for hierarchy.
// Discrete variables get one bin per value.
func plainLatinHypercube(rng *rand.Rand, space framework.DesignSpace, n int) framework.Population {
	x := LatinHypercubeUnit(rng, n, space.NVar())
	for _, row := range x {
		for j, v := range space {
			if v.IsCont() {
				row[j] = v.Lower + row[j]*(v.Upper-v.Lower)
				continue
			}
			row[j] = math.Min(v.Upper, math.Floor(v.Lower+row[j]*float64(v.NOptions())))
		}
	}
	return framework.Population{X: x}
}
