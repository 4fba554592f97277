package sampling

import (
	"k8s.io/utils/ptr"

	"github.com/archopt/archopt/apis/config/v1alpha1"
	"github.com/archopt/archopt/pkg/archopt/duplicates"
	"github.com/archopt/archopt/pkg/archopt/framework"
)

// NewExhaustiveFromArgs returns an exhaustive sampler for defaulted args.
func NewExhaustiveFromArgs(args *v1alpha1.SamplingArgs, repair framework.Repair) *HierarchicalExhaustiveSampling {
	s := NewHierarchicalExhaustiveSampling(repair, ptr.Deref(args.NCont, DefaultNCont))
	s.BatchSize = ptr.Deref(args.BatchSize, DefaultEnumerateBatchSize)
	s.MaxEnumerate = ptr.Deref(args.MaxEnumerate, DefaultMaxEnumerate)
	return s
}

// NewEliminationFromArgs returns the configured duplicate elimination, or nil
// if duplicates are kept.
func NewEliminationFromArgs(args *v1alpha1.SamplingArgs) *duplicates.LargeDuplicateElimination {
	if !ptr.Deref(args.RemoveDuplicates, true) {
		return nil
	}
	e := duplicates.NewLargeDuplicateElimination()
	e.Epsilon = ptr.Deref(args.Epsilon, duplicates.DefaultEpsilon)
	e.BatchSize = ptr.Deref(args.DuplicateBatchSize, duplicates.DefaultBatchSize)
	e.Metric = ptr.Deref(args.DistanceMetric, duplicates.MetricCityBlock)
	return e
}

// NewInitializationFromArgs builds the initialization described by args: a
// hierarchical Latin hypercube sampler if LHS is set, hierarchical random
// sampling otherwise. enumerator may be nil; onWarning is only installed on
// it if it has no handler yet.
func NewInitializationFromArgs(args *v1alpha1.SamplingArgs, repair framework.Repair, enumerator *HierarchicalExhaustiveSampling,
	onWarning framework.WarningHandler) *Initialization {
	if repair == nil {
		repair = framework.ArchOptRepair{}
	}
	if enumerator == nil {
		enumerator = NewExhaustiveFromArgs(args, repair)
	}
	if enumerator.OnWarning == nil {
		enumerator.OnWarning = onWarning
	}

	var sampler Sampler
	if ptr.Deref(args.LHS, false) {
		lhs := NewHierarchicalLatinHypercubeSampling(repair)
		lhs.Iterations = ptr.Deref(args.Iterations, DefaultLHSIterations)
		lhs.NCombGenAllMax = ptr.Deref(args.NCombGenAllMax, DefaultNCombGenAllMax)
		lhs.Enumerator = enumerator
		lhs.OnWarning = onWarning
		sampler = lhs
	} else {
		random := NewHierarchicalRandomSampling(repair, ptr.Deref(args.Sobol, true))
		random.NCombGenAllMax = ptr.Deref(args.NCombGenAllMax, DefaultNCombGenAllMax)
		random.Enumerator = enumerator
		random.OnWarning = onWarning
		sampler = random
	}
	return &Initialization{Sampling: sampler, Eliminate: NewEliminationFromArgs(args)}
}
