package sampling

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// DefaultNCombGenAllMax is the number of discrete combinations up to which
// all valid discrete design vectors are generated before selecting samples.
const DefaultNCombGenAllMax = 100e3

// ErrNoRandomSource is returned when a sampler is called without a random source.
var ErrNoRandomSource = errors.New("random source is required")

// HierarchicalRandomSampling samples mixed-discrete hierarchical design
// spaces in one of two ways:
//
//   - Generate and select: generate all valid discrete design vectors, group
//     them by their number of active discrete variables, sample uniformly
//     within the groups and randomize the active continuous variables.
//   - One shot: sample every discrete variable independently and let the
//     repair restore validity.
//
// The first gives every valid discrete design vector an even chance of being
// selected, but needs the whole discrete design space in memory. It is used
// whenever the problem enumerates its own discrete design space or the number
// of discrete combinations is below NCombGenAllMax.
type HierarchicalRandomSampling struct {
	Repair framework.Repair
	// Sobol selects the low-discrepancy fill for continuous variables and for
	// the choice of discrete vectors.
	Sobol          bool
	NCombGenAllMax float64
	// Enumerator generates the discrete design vectors. A default exhaustive
	// sampler using Repair is used if nil.
	Enumerator *HierarchicalExhaustiveSampling
	OnWarning  framework.WarningHandler
}

func NewHierarchicalRandomSampling(repair framework.Repair, sobol bool) *HierarchicalRandomSampling {
	if repair == nil {
		repair = framework.ArchOptRepair{}
	}
	return &HierarchicalRandomSampling{
		Repair:         repair,
		Sobol:          sobol,
		NCombGenAllMax: DefaultNCombGenAllMax,
	}
}

func (s *HierarchicalRandomSampling) Name() string {
	return "HierarchicalRandomSampling"
}

func (s *HierarchicalRandomSampling) repair() framework.Repair {
	if s.Repair == nil {
		return framework.ArchOptRepair{}
	}
	return s.Repair
}

func (s *HierarchicalRandomSampling) enumerator() *HierarchicalExhaustiveSampling {
	if s.Enumerator != nil {
		return s.Enumerator
	}
	e := NewHierarchicalExhaustiveSampling(s.repair(), 1)
	e.OnWarning = s.OnWarning
	return e
}

// Sample draws n design vectors.
func (s *HierarchicalRandomSampling) Sample(ctx context.Context, rng *rand.Rand, p framework.Problem, n int) (framework.Population, error) {
	if n <= 0 {
		return framework.Population{}, fmt.Errorf("%w: got %d", framework.ErrInvalidSampleCount, n)
	}
	if rng == nil {
		return framework.Population{}, ErrNoRandomSource
	}
	xAll, isActAll, err := s.HierarchicalCartesianProduct(ctx, p)
	if err != nil {
		return framework.Population{}, err
	}
	fill := FillUniform
	if s.Sobol {
		fill = FillLowDiscrepancy
	}
	return RandomlySample(ctx, rng, p, n, s.repair(), xAll, isActAll, fill)
}

// HierarchicalCartesianProduct returns all valid discrete design vectors if
// generating them is affordable, or nil if samples have to be generated one
// shot. Design spaces without discrete variables always yield nil. Only a
// cancelled context results in an error.
func (s *HierarchicalRandomSampling) HierarchicalCartesianProduct(ctx context.Context, p framework.Problem) (framework.Matrix, framework.Mask, error) {
	logger := klog.FromContext(ctx)
	if x, isActive, ok := framework.CheapAllDiscreteX(p); ok {
		logger.V(5).Info("Using problem enumeration", "problem", p.Name(), "valid", x.Rows())
		return x, isActive, nil
	}
	// Nothing to enumerate
	if !slices.Contains(p.DesignSpace().IsDiscreteMask(), true) {
		return nil, nil, nil
	}

	threshold := s.NCombGenAllMax
	if threshold <= 0 {
		threshold = DefaultNCombGenAllMax
	}
	nComb := NSampleExhaustive(p.DesignSpace(), 1)
	if nComb < threshold {
		x, isActive, err := s.enumerator().allDiscreteXWithWarning(ctx, p)
		if err == nil {
			return x, isActive, nil
		}
		if !errors.Is(err, framework.ErrEnumerationInfeasible) {
			return nil, nil, err
		}
		logger.V(2).Info("Enumeration failed", "problem", p.Name(), "err", err)
	}

	msg := fmt.Sprintf("hierarchical sampling is not possible for %s (%s discrete combinations), falling back to non-hierarchical sampling, consider implementing AllDiscreteX",
		p.Name(), humanize.Commaf(nComb))
	logger.Info("Hierarchical sampling not possible", "problem", p.Name(), "combinations", humanize.Commaf(nComb))
	s.OnWarning.Emit(framework.Warning{Kind: framework.TrialRepairWarning, Problem: p.Name(), Message: msg})
	return nil, nil, nil
}

// RandomlySample draws n design vectors. With xAll, the discrete part is
// selected from the given valid discrete design vectors; otherwise discrete
// variables are sampled independently and repaired afterwards. Active
// continuous variables are then filled as specified; inactive ones keep
// their imputed value.
//
// Without continuous variables fewer than n rows are returned if xAll has
// fewer than n rows.
func RandomlySample(ctx context.Context, rng *rand.Rand, p framework.Problem, n int, repair framework.Repair,
	xAll framework.Matrix, isActAll framework.Mask, fill ContinuousFill) (framework.Population, error) {
	if n <= 0 {
		return framework.Population{}, fmt.Errorf("%w: got %d", framework.ErrInvalidSampleCount, n)
	}
	if repair == nil {
		repair = framework.ArchOptRepair{}
	}
	space := p.DesignSpace()
	isCont := space.IsContMask()
	lowDiscrepancy := fill == FillLowDiscrepancy
	needsRepair := false

	var x framework.Matrix
	var isActive framework.Mask
	if xAll != nil {
		var err error
		x, isActive, err = SampleDiscreteX(rng, n, isCont, xAll, isActAll, lowDiscrepancy)
		if err != nil {
			return framework.Population{}, err
		}
	} else {
		needsRepair = true
		values := ExhaustiveSampleValues(space, 1)
		x = framework.NewMatrix(n, space.NVar())
		for j, cont := range isCont {
			if cont {
				continue
			}
			idx, err := Choice(rng, n, len(values[j]), true, lowDiscrepancy)
			if err != nil {
				return framework.Population{}, fmt.Errorf("sampling variable %d: %w", j, err)
			}
			for i, k := range idx {
				x[i][j] = values[j][k]
			}
		}
	}

	if space.HasCont() {
		if isActive == nil {
			needsRepair = true
			isActive = framework.NewMask(x.Rows(), space.NVar(), true)
		}
		var contCols []int
		for j, cont := range isCont {
			if cont {
				contCols = append(contCols, j)
			}
		}
		unit := unitDesign(rng, fill, x.Rows(), len(contCols))
		for i, row := range x {
			for k, j := range contCols {
				if isActive[i][j] {
					row[j] = space[j].Lower + unit[i][k]*(space[j].Upper-space[j].Lower)
				}
			}
		}
	}

	if needsRepair {
		x, isActive = repair.Do(p, x)
		isActive = framework.OrAllActive(x, isActive)
	}
	klog.FromContext(ctx).V(5).Info("Sampled design vectors", "problem", p.Name(), "n", x.Rows(),
		"fill", fill, "hierarchical", xAll != nil)
	return framework.Population{X: x, IsActive: isActive}, nil
}

// DiscreteGroup holds the rows of a discrete design space that have the same
// number of active discrete variables.
type DiscreteGroup struct {
	NActive int
	// Rows are indices into the matrix the groups were split from.
	Rows []int
}

// SplitByDiscreteNActive groups the rows of x by their number of active
// discrete variables, in increasing order of that number. Within a group
// rows keep their original order.
func SplitByDiscreteNActive(isActive framework.Mask, isCont []bool) []DiscreteGroup {
	nActive := framework.ActiveDiscreteCount(isActive, isCont)
	order := make([]int, len(nActive))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return nActive[a] - nActive[b]
	})

	var groups []DiscreteGroup
	for _, i := range order {
		if len(groups) == 0 || groups[len(groups)-1].NActive != nActive[i] {
			groups = append(groups, DiscreteGroup{NActive: nActive[i]})
		}
		g := &groups[len(groups)-1]
		g.Rows = append(g.Rows, i)
	}
	return groups
}

// SampleDiscreteX selects n rows of xAll. The group of every sample is chosen
// uniformly by group, not by row, so groups with few active variables are
// not drowned out by large ones. Within a group rows are selected without
// replacement; rows are only repeated if continuous variables can make them
// distinct. If this yields fewer than n rows, the remainder is drawn
// uniformly from all rows not yet selected, regardless of their group.
func SampleDiscreteX(rng *rand.Rand, n int, isCont []bool, xAll framework.Matrix, isActAll framework.Mask,
	lowDiscrepancy bool) (framework.Matrix, framework.Mask, error) {
	isActAll = framework.OrAllActive(xAll, isActAll)
	groups := SplitByDiscreteNActive(isActAll, isCont)
	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("%w: no valid discrete design vectors to select from", framework.ErrEnumerationInfeasible)
	}
	hasCont := slices.Contains(isCont, true)

	groupIdx, err := Choice(rng, n, len(groups), true, lowDiscrepancy)
	if err != nil {
		return nil, nil, err
	}
	nPerGroup := make([]int, len(groups))
	for _, g := range groupIdx {
		nPerGroup[g]++
	}

	selected := bitset.New(uint(xAll.Rows()))
	rows := make([]int, 0, n)
	for g, group := range groups {
		nGroup := nPerGroup[g]
		if nGroup == 0 {
			continue
		}
		size := len(group.Rows)

		var idx []int
		switch {
		case nGroup < size:
			idx, err = Choice(rng, nGroup, size, false, lowDiscrepancy)
			if err != nil {
				return nil, nil, err
			}
		case hasCont:
			extra, err := Choice(rng, nGroup-size, size, true, lowDiscrepancy)
			if err != nil {
				return nil, nil, err
			}
			idx = append(seq(size), extra...)
			slices.Sort(idx)
		default:
			idx = seq(size)
		}

		for _, k := range idx {
			rows = append(rows, group.Rows[k])
			selected.Set(uint(group.Rows[k]))
		}
	}

	if nAdd := n - len(rows); nAdd > 0 {
		available := make([]int, 0, xAll.Rows()-int(selected.Count()))
		for i := range xAll {
			if !selected.Test(uint(i)) {
				available = append(available, i)
			}
		}
		idx := seq(len(available))
		if nAdd < len(available) {
			idx, err = Choice(rng, nAdd, len(available), false, lowDiscrepancy)
			if err != nil {
				return nil, nil, err
			}
		}
		for _, k := range idx {
			rows = append(rows, available[k])
		}
	}

	return xAll.SelectRows(rows), isActAll.SelectRows(rows), nil
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
