// Package duplicates detects near-duplicate design vectors in large
// populations without building an all-pairs distance matrix.
package duplicates

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

const (
	// DefaultEpsilon treats vectors as duplicates only if they are equal up to
	// floating point rounding.
	DefaultEpsilon = 1e-16
	// DefaultBatchSize is the number of comparison rows processed at a time.
	DefaultBatchSize = 200

	MetricCityBlock = "cityblock"
	MetricEuclidean = "euclidean"
)

// ErrInvalidMetric is returned when the elimination is configured with an
// unknown distance metric or a negative tolerance.
var ErrInvalidMetric = errors.New("invalid duplicate comparison metric")

// LargeDuplicateElimination marks design vectors that lie within Epsilon of
// another one. The comparison set is processed in batches of BatchSize rows,
// so memory use does not grow with the square of the population size.
type LargeDuplicateElimination struct {
	Epsilon   float64
	BatchSize int
	// Metric is either MetricCityBlock (default) or MetricEuclidean.
	Metric string
}

func NewLargeDuplicateElimination() *LargeDuplicateElimination {
	return &LargeDuplicateElimination{
		Epsilon:   DefaultEpsilon,
		BatchSize: DefaultBatchSize,
		Metric:    MetricCityBlock,
	}
}

func (e *LargeDuplicateElimination) distanceFunc() (func(a, b []float64) float64, error) {
	if e.Epsilon < 0 {
		return nil, fmt.Errorf("%w: negative epsilon %v", ErrInvalidMetric, e.Epsilon)
	}
	var norm float64
	switch e.Metric {
	case "", MetricCityBlock:
		norm = 1
	case MetricEuclidean:
		norm = 2
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, e.Metric)
	}
	return func(a, b []float64) float64 {
		return floats.Distance(a, b, norm)
	}, nil
}

// MarkDuplicates returns which rows of x are duplicates. If other is nil, x
// is compared to itself and every row equal to an earlier row is marked; the
// first occurrence is never marked. Otherwise rows of x equal to any row of
// other are marked. isDuplicate optionally holds rows already known to be
// duplicates; it is not modified.
func (e *LargeDuplicateElimination) MarkDuplicates(x, other framework.Matrix, isDuplicate []bool) ([]bool, error) {
	dist, err := e.distanceFunc()
	if err != nil {
		return nil, err
	}
	nx := x.Rows()
	out := make([]bool, nx)
	if isDuplicate != nil {
		if len(isDuplicate) != nx {
			return nil, fmt.Errorf("duplicate mask has %d entries for %d rows", len(isDuplicate), nx)
		}
		copy(out, isDuplicate)
	}

	toItself := other == nil
	ref := other
	n := ref.Rows()
	if toItself {
		ref = x
		n = nx - 1
	} else if n > 0 && nx > 0 && ref.Cols() != x.Cols() {
		return nil, fmt.Errorf("cannot compare %d to %d columns", x.Cols(), ref.Cols())
	}
	if n <= 0 {
		return out, nil
	}

	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	eps := e.Epsilon

	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)

		// Only rows not yet marked are checked. When comparing to itself, row k
		// is only compared to earlier rows, so a pair is never visited twice.
		first := 0
		if toItself {
			first = start + 1
		}
		checked := false
		for k := first; k < nx; k++ {
			if out[k] {
				continue
			}
			checked = true
			last := end
			if toItself {
				last = min(end, k)
			}
			for j := start; j < last; j++ {
				if dist(x[k], ref[j]) < eps {
					out[k] = true
					break
				}
			}
		}
		if !checked {
			break
		}
	}
	return out, nil
}

// Do returns a new population without the rows that duplicate an earlier
// row, or any row of others.
func (e *LargeDuplicateElimination) Do(pop framework.Population, others ...framework.Population) (framework.Population, error) {
	isDup, err := e.MarkDuplicates(pop.X, nil, nil)
	if err != nil {
		return framework.Population{}, err
	}
	for _, other := range others {
		if other.Len() == 0 {
			continue
		}
		isDup, err = e.MarkDuplicates(pop.X, other.X, isDup)
		if err != nil {
			return framework.Population{}, err
		}
	}

	keep := make([]int, 0, len(isDup))
	for i, dup := range isDup {
		if !dup {
			keep = append(keep, i)
		}
	}
	return pop.SelectRows(keep), nil
}

// MarkDuplicates marks duplicates with the default tolerance, metric and batch size.
func MarkDuplicates(x, other framework.Matrix) []bool {
	isDup, err := NewLargeDuplicateElimination().MarkDuplicates(x, other, nil)
	if err != nil {
		// Unreachable: the default configuration is valid.
		panic(err)
	}
	return isDup
}
