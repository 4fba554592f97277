package sampling

import (
	"context"
	"math/rand/v2"

	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/duplicates"
	"github.com/archopt/archopt/pkg/archopt/framework"
)

// Sampler generates an initial population for a problem.
type Sampler interface {
	Name() string
	Sample(ctx context.Context, rng *rand.Rand, p framework.Problem, n int) (framework.Population, error)
}

var (
	_ Sampler = &HierarchicalRandomSampling{}
	_ Sampler = &HierarchicalLatinHypercubeSampling{}
	_ Sampler = &HierarchicalExhaustiveSampling{}
)

// Initialization samples a population and optionally removes duplicates
// from it. The result may hold fewer than the requested number of rows.
type Initialization struct {
	Sampling Sampler
	// Eliminate is skipped if nil.
	Eliminate *duplicates.LargeDuplicateElimination
}

// GetInitSampler returns an initialization with low-discrepancy hierarchical
// random sampling. Samples are repaired by the sampler, so only duplicates
// need to be taken care of.
func GetInitSampler(repair framework.Repair, removeDuplicates bool) *Initialization {
	in := &Initialization{Sampling: NewHierarchicalRandomSampling(repair, true)}
	if removeDuplicates {
		in.Eliminate = duplicates.NewLargeDuplicateElimination()
	}
	return in
}

func (i *Initialization) Do(ctx context.Context, rng *rand.Rand, p framework.Problem, n int) (framework.Population, error) {
	pop, err := i.Sampling.Sample(ctx, rng, p, n)
	if err != nil {
		return framework.Population{}, err
	}
	if i.Eliminate == nil {
		return pop, nil
	}

	nSampled := pop.Len()
	pop, err = i.Eliminate.Do(pop)
	if err != nil {
		return framework.Population{}, err
	}
	klog.FromContext(ctx).V(2).Info("Initialized population", "problem", p.Name(), "sampler", i.Sampling.Name(),
		"sampled", nSampled, "duplicates", nSampled-pop.Len())
	return pop, nil
}
