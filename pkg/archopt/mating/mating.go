// Package mating generates offspring for mixed-discrete design spaces by
// recombining every variable type with its own operators.
package mating

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
	"github.com/archopt/archopt/pkg/archopt/operators"
)

const (
	// DefaultMaxRetries bounds how often a group's offspring are regenerated
	// when they contain non-finite values.
	DefaultMaxRetries = 100

	matingParents   = 2
	matingOffspring = 2
)

var (
	// ErrOperatorArity is returned for operators that do not turn two parents
	// into two offspring.
	ErrOperatorArity = errors.New("crossover must take 2 parents and produce 2 offspring")
	// ErrRetriesExhausted is returned when the operators keep producing
	// non-finite values.
	ErrRetriesExhausted = errors.New("could not generate finite offspring")
)

// MixedDiscreteMating splits the design vector into groups of variables of
// the same type, with a group of its own for every categorical variable, and
// applies the crossover and mutation configured for that type to each group.
// Offspring are not repaired; activeness and imputation are left to the
// caller's repair.
type MixedDiscreteMating struct {
	Selection  operators.Selection
	Crossover  map[framework.VarType]operators.Crossover
	Mutation   map[framework.VarType]operators.Mutation
	MaxRetries int
}

// NewMixedDiscreteMating returns a mating with random parent selection,
// uniform crossover for binary and categorical variables, SBX for continuous
// and integer variables, and type specific mutation.
func NewMixedDiscreteMating() *MixedDiscreteMating {
	return &MixedDiscreteMating{
		Selection: operators.RandomSelection{},
		Crossover: map[framework.VarType]operators.Crossover{
			framework.Binary:  operators.NewUniformCrossover(),
			framework.Real:    operators.NewSBX(false),
			framework.Integer: operators.NewSBX(true),
			framework.Choice:  operators.NewUniformCrossover(),
		},
		Mutation: map[framework.VarType]operators.Mutation{
			framework.Binary:  operators.NewBitflipMutation(),
			framework.Real:    operators.NewPolynomialMutation(false),
			framework.Integer: operators.NewPolynomialMutation(true),
			framework.Choice:  operators.NewChoiceRandomMutation(),
		},
		MaxRetries: DefaultMaxRetries,
	}
}

// Do selects parents from pop and returns nOffspring new design vectors.
func (m *MixedDiscreteMating) Do(ctx context.Context, rng *rand.Rand, p framework.Problem, pop []framework.Individual,
	nOffspring int) (framework.Matrix, error) {
	if nOffspring <= 0 {
		return nil, fmt.Errorf("%w: got %d offspring", framework.ErrInvalidSampleCount, nOffspring)
	}
	if len(pop) == 0 {
		return nil, fmt.Errorf("cannot select parents from an empty population")
	}
	selection := m.Selection
	if selection == nil {
		selection = operators.RandomSelection{}
	}

	nSelect := (nOffspring + matingOffspring - 1) / matingOffspring
	selected := selection.Select(rng, pop, nSelect, matingParents)
	matings := make([]framework.Matrix, len(selected))
	for k, idx := range selected {
		matings[k] = framework.NewMatrix(len(idx), len(pop[0].X))
		for i, j := range idx {
			copy(matings[k][i], pop[j].X)
		}
	}
	return m.DoWithParents(ctx, rng, p, matings, nOffspring)
}

// DoWithParents returns nOffspring design vectors recombined from the given
// matings of two parents each.
func (m *MixedDiscreteMating) DoWithParents(ctx context.Context, rng *rand.Rand, p framework.Problem, matings []framework.Matrix,
	nOffspring int) (framework.Matrix, error) {
	logger := klog.FromContext(ctx)
	if nOffspring <= 0 {
		return nil, fmt.Errorf("%w: got %d offspring", framework.ErrInvalidSampleCount, nOffspring)
	}
	if len(matings)*matingOffspring < nOffspring {
		return nil, fmt.Errorf("%d matings cannot produce %d offspring", len(matings), nOffspring)
	}

	space := p.DesignSpace()
	groups := framework.GroupByType(space)
	for _, g := range groups {
		cx, ok := m.Crossover[g.Type]
		if !ok {
			return nil, fmt.Errorf("no crossover configured for %s variables", g.Type)
		}
		if cx.NParents() != matingParents || cx.NOffspring() != matingOffspring {
			return nil, fmt.Errorf("%w: %s crossover takes %d parents and produces %d offspring",
				ErrOperatorArity, g.Type, cx.NParents(), cx.NOffspring())
		}
		if _, ok := m.Mutation[g.Type]; !ok {
			return nil, fmt.Errorf("no mutation configured for %s variables", g.Type)
		}
	}
	for k, parents := range matings {
		if parents.Rows() != matingParents {
			return nil, fmt.Errorf("%w: mating %d has %d parents", ErrOperatorArity, k, parents.Rows())
		}
	}

	maxRetries := m.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	out := framework.NewMatrix(nOffspring, space.NVar())
	for _, g := range groups {
		sub := operators.NewSubProblem(space, g.Columns)
		subMatings := make([]framework.Matrix, len(matings))
		for k, parents := range matings {
			subMatings[k] = parents.SubColumns(g.Columns)
		}

		offspring, err := m.recombine(rng, g.Type, sub, subMatings, nOffspring, maxRetries)
		if err != nil {
			return nil, err
		}
		for i, row := range offspring {
			for k, c := range g.Columns {
				out[i][c] = row[k]
			}
		}
		logger.V(5).Info("Recombined variable group", "type", g.Type, "columns", len(g.Columns))
	}
	return out, nil
}

// recombine applies crossover and mutation, regenerating the whole group from
// the same parents while the result holds non-finite values.
func (m *MixedDiscreteMating) recombine(rng *rand.Rand, t framework.VarType, sub operators.SubProblem, matings []framework.Matrix,
	n, maxRetries int) (framework.Matrix, error) {
	cx, mut := m.Crossover[t], m.Mutation[t]
	for try := 0; try < maxRetries; try++ {
		offspring := mut.Do(rng, sub, cx.Do(rng, sub, matings))[:n]
		if !offspring.HasNonFinite() {
			return offspring, nil
		}
	}
	return nil, fmt.Errorf("%w: %s variables after %d tries", ErrRetriesExhausted, t, maxRetries)
}
