package sampling

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

const (
	// DefaultNCont is the number of levels sampled along every active
	// continuous variable by the exhaustive sampler.
	DefaultNCont = 5
	// DefaultEnumerateBatchSize is the number of candidates repaired at a time
	// during trial and repair.
	DefaultEnumerateBatchSize = 1000
	// DefaultMaxEnumerate caps the size of the Cartesian product walked by
	// trial and repair.
	DefaultMaxEnumerate = 10e6
)

// HierarchicalExhaustiveSampling enumerates every valid discrete design vector
// and expands it along the active continuous variables. This is slow when the
// problem cannot enumerate its own discrete design space, and of little use
// for purely continuous problems.
type HierarchicalExhaustiveSampling struct {
	Repair framework.Repair
	// NCont is the number of evenly spaced levels per active continuous
	// variable. Values up to 1 disable the expansion.
	NCont        int
	BatchSize    int
	MaxEnumerate float64
	OnWarning    framework.WarningHandler
}

func NewHierarchicalExhaustiveSampling(repair framework.Repair, nCont int) *HierarchicalExhaustiveSampling {
	if repair == nil {
		repair = framework.ArchOptRepair{}
	}
	return &HierarchicalExhaustiveSampling{
		Repair:       repair,
		NCont:        nCont,
		BatchSize:    DefaultEnumerateBatchSize,
		MaxEnumerate: DefaultMaxEnumerate,
	}
}

func (s *HierarchicalExhaustiveSampling) Name() string {
	return "HierarchicalExhaustiveSampling"
}

func (s *HierarchicalExhaustiveSampling) repair() framework.Repair {
	if s.Repair == nil {
		return framework.ArchOptRepair{}
	}
	return s.Repair
}

// ExhaustiveSampleValues returns the values every variable takes in an
// exhaustive sample: nCont evenly spaced values over the bounds of continuous
// variables (only the lower bound if nCont is 1), and every integer between
// the bounds of discrete variables.
func ExhaustiveSampleValues(space framework.DesignSpace, nCont int) [][]float64 {
	nCont = max(nCont, 1)
	values := make([][]float64, len(space))
	for i, v := range space {
		switch {
		case !v.IsCont():
			n := v.NOptions()
			values[i] = make([]float64, n)
			for k := range values[i] {
				values[i][k] = v.Lower + float64(k)
			}
		case nCont == 1:
			values[i] = []float64{v.Lower}
		default:
			values[i] = floats.Span(make([]float64, nCont), v.Lower, v.Upper)
		}
	}
	return values
}

// NSampleExhaustive returns the size of the exhaustive sample. It is a float
// since the product easily overflows an int.
func NSampleExhaustive(space framework.DesignSpace, nCont int) float64 {
	n := 1.
	for _, values := range ExhaustiveSampleValues(space, nCont) {
		n *= float64(len(values))
	}
	return n
}

// AllDiscreteX returns all valid discrete design vectors with their
// activeness. Continuous variables hold their imputed values.
func (s *HierarchicalExhaustiveSampling) AllDiscreteX(ctx context.Context, p framework.Problem) (framework.Matrix, framework.Mask, error) {
	if x, isActive, ok := framework.CheapAllDiscreteX(p); ok {
		return x, isActive, nil
	}
	return s.allDiscreteXWithWarning(ctx, p)
}

func (s *HierarchicalExhaustiveSampling) allDiscreteXWithWarning(ctx context.Context, p framework.Problem) (framework.Matrix, framework.Mask, error) {
	logger := klog.FromContext(ctx)
	msg := fmt.Sprintf("generating hierarchical discrete samples by trial and repair for %s, consider implementing AllDiscreteX", p.Name())
	logger.Info("Trial and repair enumeration", "problem", p.Name())
	s.OnWarning.Emit(framework.Warning{Kind: framework.TrialRepairWarning, Problem: p.Name(), Message: msg})
	return s.AllDiscreteXByTrialAndRepair(ctx, p)
}

// AllDiscreteXByTrialAndRepair walks the Cartesian product of all discrete
// values in batches and keeps the candidates the repair leaves unchanged.
// Repair is used as a validity oracle only: corrected candidates are dropped,
// as their valid counterpart is part of the product as well.
func (s *HierarchicalExhaustiveSampling) AllDiscreteXByTrialAndRepair(ctx context.Context, p framework.Problem) (framework.Matrix, framework.Mask, error) {
	logger := klog.FromContext(ctx)
	space := p.DesignSpace()
	nVar := space.NVar()
	values := ExhaustiveSampleValues(space, 1)

	nComb := NSampleExhaustive(space, 1)
	maxEnumerate := s.MaxEnumerate
	if maxEnumerate <= 0 {
		maxEnumerate = DefaultMaxEnumerate
	}
	if nComb > maxEnumerate {
		return nil, nil, fmt.Errorf("%w: %s has %s discrete combinations (max %s)", framework.ErrEnumerationInfeasible,
			p.Name(), humanize.Commaf(nComb), humanize.Commaf(maxEnumerate))
	}
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultEnumerateBatchSize
	}

	isDiscrete := space.IsDiscreteMask()
	repair := s.repair()
	total := int(nComb)
	counter := make([]int, nVar)

	x := framework.Matrix{}
	isActive := framework.Mask{}
	for start := 0; start < total; start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		batch := framework.NewMatrix(min(batchSize, total-start), nVar)
		for _, row := range batch {
			for j, k := range counter {
				row[j] = values[j][k]
			}
			advance(counter, values)
		}

		repaired, repairedActive := repair.Do(p, batch)
		repairedActive = framework.OrAllActive(repaired, repairedActive)
		for i, row := range repaired {
			if !unchanged(batch[i], row, isDiscrete) {
				continue
			}
			x = append(x, append([]float64(nil), row...))
			isActive = append(isActive, append([]bool(nil), repairedActive[i]...))
		}
		logger.V(5).Info("Repaired enumeration batch", "problem", p.Name(), "done", start+batch.Rows(), "valid", x.Rows())
	}

	if imp, ok := p.(framework.Imputer); ok && x.Rows() > 0 {
		x = imp.ImputeX(x, isActive)
	}
	logger.V(2).Info("Enumerated discrete design space", "problem", p.Name(),
		"combinations", humanize.Commaf(nComb), "valid", x.Rows())
	return x, isActive, nil
}

// advance increments the counter like an odometer, the last position turning
// fastest.
func advance(counter []int, values [][]float64) {
	for j := len(counter) - 1; j >= 0; j-- {
		counter[j]++
		if counter[j] < len(values[j]) {
			return
		}
		counter[j] = 0
	}
}

func unchanged(before, after []float64, mask []bool) bool {
	for j, m := range mask {
		if m && before[j] != after[j] {
			return false
		}
	}
	return true
}

// Do returns the full exhaustive sample. Continuous variables are
// expanded into NCont levels wherever they are active; inactive ones keep
// their imputed value and do not multiply the row.
func (s *HierarchicalExhaustiveSampling) Do(ctx context.Context, p framework.Problem) (framework.Population, error) {
	x, isActive, err := s.AllDiscreteX(ctx, p)
	if err != nil {
		return framework.Population{}, err
	}

	space := p.DesignSpace()
	if s.NCont <= 1 || !space.HasCont() {
		return framework.Population{X: x, IsActive: isActive}, nil
	}

	values := ExhaustiveSampleValues(space, s.NCont)
	for j, v := range space {
		if !v.IsCont() {
			continue
		}
		var xExp framework.Matrix
		var actExp framework.Mask
		for i, row := range x {
			if !isActive[i][j] {
				xExp = append(xExp, row)
				actExp = append(actExp, isActive[i])
				continue
			}
			for _, value := range values[j] {
				rep := append([]float64(nil), row...)
				rep[j] = value
				xExp = append(xExp, rep)
				actExp = append(actExp, append([]bool(nil), isActive[i]...))
			}
		}
		x, isActive = xExp, actExp
	}
	klog.FromContext(ctx).V(2).Info("Expanded exhaustive sample", "problem", p.Name(), "nCont", s.NCont, "samples", x.Rows())
	return framework.Population{X: x.Clone(), IsActive: isActive.Clone()}, nil
}

// Sample implements Sampler. The number of samples is defined by the design
// space, so n is ignored.
func (s *HierarchicalExhaustiveSampling) Sample(ctx context.Context, _ *rand.Rand, p framework.Problem, _ int) (framework.Population, error) {
	return s.Do(ctx, p)
}
