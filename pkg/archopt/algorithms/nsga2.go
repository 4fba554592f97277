package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/duplicates"
	"github.com/archopt/archopt/pkg/archopt/framework"
	"github.com/archopt/archopt/pkg/archopt/mating"
	"github.com/archopt/archopt/pkg/archopt/metrics"
	"github.com/archopt/archopt/pkg/archopt/operators"
	"github.com/archopt/archopt/pkg/archopt/sampling"
)

const (
	Name = "NSGA-II"

	// maxFillAttempts bounds how often offspring are regenerated when
	// duplicate elimination leaves too few of them.
	maxFillAttempts = 10
	nFrontPoints    = 100
)

var _ framework.Algorithm = &NSGAII{}

// NSGAII represents the NSGA-II algorithm configuration for mixed-discrete,
// hierarchical problems.
type NSGAII struct {
	PopSize        int
	NumGenerations int
	Problem        framework.Problem

	Initialization *sampling.Initialization
	Mating         *mating.MixedDiscreteMating
	Repair         framework.Repair
	// Eliminate removes offspring that duplicate each other or the current
	// population. Skipped if nil.
	Eliminate *duplicates.LargeDuplicateElimination
	// Termination stops the run early once the population has converged to
	// the problem's Pareto front. It is only used if the problem provides one.
	Termination *metrics.PFDistanceTermination
	// Enumerator caches the discrete design space of the problem between runs.
	// Not used for problems without discrete variables.
	Enumerator *sampling.CachedEnumerator
}

// NewNSGAII creates a new instance of NSGA-II with given parameters
func NewNSGAII(popSize, numGen int, problem framework.Problem) *NSGAII {
	repair := framework.ArchOptRepair{}
	m := mating.NewMixedDiscreteMating()
	m.Selection = operators.TournamentSelection{Size: 2}
	return &NSGAII{
		PopSize:        popSize,
		NumGenerations: numGen,
		Problem:        problem,
		Initialization: sampling.GetInitSampler(repair, true),
		Mating:         m,
		Repair:         repair,
		Eliminate:      duplicates.NewLargeDuplicateElimination(),
	}
}

func (n *NSGAII) Name() string {
	return Name
}

// Initialize samples, repairs and evaluates the initial population. It may
// hold fewer than PopSize individuals if duplicates were removed.
func (n *NSGAII) Initialize(ctx context.Context, rng *rand.Rand, p framework.Problem) ([]framework.Individual, error) {
	in := n.Initialization
	if in == nil {
		in = sampling.GetInitSampler(n.Repair, true)
	}
	pop, err := in.Do(ctx, rng, p, n.PopSize)
	if err != nil {
		return nil, fmt.Errorf("initializing population: %w", err)
	}
	return framework.Evaluate(p, pop.X, pop.IsActive), nil
}

// CrowdingDistance calculates crowding distance for individuals in a front
func CrowdingDistance(front []framework.Individual) {
	if len(front) <= 2 {
		for i := range front {
			front[i].Distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].Objectives)
	for i := range front {
		front[i].Distance = 0
	}

	for m := 0; m < numObjectives; m++ {
		// Sort by each objective
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Objectives[m] < front[j].Objectives[m]
		})

		// Set boundary points to infinity
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		objectiveRange := front[len(front)-1].Objectives[m] - front[0].Objectives[m]
		if objectiveRange == 0 {
			continue
		}

		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / objectiveRange
		}
	}
}

// Survive keeps the popSize best individuals by non-domination rank, breaking
// ties in the last front by crowding distance. Rank and distance of the
// survivors are set.
func Survive(combined []framework.Individual, popSize int) []framework.Individual {
	fronts := framework.NonDominatedSort(combined)

	population := make([]framework.Individual, 0, popSize)
	for _, front := range fronts {
		CrowdingDistance(front)
		if len(population)+len(front) <= popSize {
			population = append(population, front...)
			continue
		}
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Distance > front[j].Distance
		})
		population = append(population, front[:popSize-len(population)]...)
		break
	}
	return population
}

// Offspring generates up to PopSize repaired offspring that do not duplicate
// each other or the population.
func (n *NSGAII) Offspring(ctx context.Context, rng *rand.Rand, p framework.Problem,
	population []framework.Individual) (framework.Population, error) {
	logger := klog.FromContext(ctx)
	repair := n.Repair
	if repair == nil {
		repair = framework.ArchOptRepair{}
	}
	m := n.Mating
	if m == nil {
		m = mating.NewMixedDiscreteMating()
	}
	parents := toPopulation(population)

	var off framework.Population
	for attempt := 0; attempt < maxFillAttempts && off.Len() < n.PopSize; attempt++ {
		x, err := m.Do(ctx, rng, p, population, n.PopSize-off.Len())
		if err != nil {
			return framework.Population{}, err
		}
		x, isActive := repair.Do(p, x)
		batch := framework.Population{X: x, IsActive: framework.OrAllActive(x, isActive)}

		if n.Eliminate != nil {
			if batch, err = n.Eliminate.Do(batch, parents, off); err != nil {
				return framework.Population{}, err
			}
		}
		off = appendPopulation(off, batch)
		logger.V(5).Info("Generated offspring", "attempt", attempt, "new", batch.Len(), "total", off.Len())
	}
	return off, nil
}

// Run executes the NSGA-II algorithm and returns the final population. The
// run stops early if no new offspring can be generated, if Termination is
// met, or if ctx is done.
func (n *NSGAII) Run(ctx context.Context, rng *rand.Rand) ([]framework.Individual, error) {
	logger := klog.FromContext(ctx)
	if n.PopSize <= 0 {
		return nil, fmt.Errorf("%w: population size %d", framework.ErrInvalidSampleCount, n.PopSize)
	}

	p := n.Problem
	if n.Enumerator != nil && slices.Contains(p.DesignSpace().IsDiscreteMask(), true) {
		var err error
		if p, err = n.Enumerator.Wrap(ctx, p); err != nil {
			return nil, err
		}
	}

	population, err := n.Initialize(ctx, rng, p)
	if err != nil {
		return nil, err
	}
	population = Survive(population, n.PopSize)

	var pfEstimate [][]float64
	if n.Termination != nil {
		for _, point := range p.TrueParetoFront(nFrontPoints) {
			pfEstimate = append(pfEstimate, point)
		}
	}

	for gen := 0; gen < n.NumGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		off, err := n.Offspring(ctx, rng, p, population)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		if off.Len() == 0 {
			logger.V(2).Info("No new offspring, stopping", "problem", p.Name(), "generation", gen)
			break
		}

		// Combine populations
		combined := append(population, framework.Evaluate(p, off.X, off.IsActive)...)
		population = Survive(combined, n.PopSize)

		if pfEstimate != nil {
			done, err := n.Termination.Update(ctx, firstFrontObjectives(population), pfEstimate)
			if err != nil {
				return nil, err
			}
			if done {
				logger.V(2).Info("Terminated", "problem", p.Name(), "generation", gen)
				break
			}
		}
	}
	return population, nil
}

func firstFrontObjectives(population []framework.Individual) [][]float64 {
	var f [][]float64
	for _, ind := range population {
		if ind.Rank == 0 {
			f = append(f, ind.Objectives)
		}
	}
	return f
}

func toPopulation(individuals []framework.Individual) framework.Population {
	pop := framework.Population{X: make(framework.Matrix, len(individuals))}
	hasActive := len(individuals) > 0 && individuals[0].IsActive != nil
	if hasActive {
		pop.IsActive = make(framework.Mask, len(individuals))
	}
	for i, ind := range individuals {
		pop.X[i] = ind.X
		if hasActive {
			pop.IsActive[i] = ind.IsActive
		}
	}
	return pop
}

func appendPopulation(a, b framework.Population) framework.Population {
	if a.Len() == 0 {
		return b
	}
	out := framework.Population{X: a.X.Append(b.X)}
	if a.IsActive != nil && b.IsActive != nil {
		out.IsActive = a.IsActive.Append(b.IsActive)
	}
	return out
}
