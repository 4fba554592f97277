// Package metrics tracks convergence of an optimization towards an estimated
// Pareto front.
package metrics

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"
)

// ErrUnsupportedDimension is returned when no hypervolume function is
// available for the number of objectives.
var ErrUnsupportedDimension = errors.New("unsupported number of objectives")

// HypervolumeFunc computes the volume dominated by points and bounded by ref,
// minimizing every objective.
type HypervolumeFunc func(points [][]float64, ref []float64) (float64, error)

// Hypervolume2D is the exact hypervolume of two-objective points. Points not
// strictly better than ref in both objectives do not contribute.
func Hypervolume2D(points [][]float64, ref []float64) (float64, error) {
	if len(ref) != 2 {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedDimension, len(ref))
	}
	var inside [][]float64
	for _, p := range points {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %d", ErrUnsupportedDimension, len(p))
		}
		if p[0] < ref[0] && p[1] < ref[1] {
			inside = append(inside, p)
		}
	}
	slices.SortFunc(inside, func(a, b []float64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	hv, level := 0., ref[1]
	for _, p := range inside {
		if p[1] >= level {
			continue
		}
		hv += (ref[0] - p[0]) * (level - p[1])
		level = p[1]
	}
	return hv, nil
}

// EstimatedPFDistance measures how far the points f are from an estimated
// Pareto front, as the fraction of the estimate's hypervolume they do not
// cover. Both are normalized to the ideal and nadir point of the estimate
// and the reference point is the normalized nadir. It is 1 without points or
// without an estimate, and never negative. hv defaults to Hypervolume2D.
func EstimatedPFDistance(f, pfEstimate [][]float64, hv HypervolumeFunc) (float64, error) {
	if len(f) == 0 || len(pfEstimate) == 0 {
		return 1, nil
	}
	if hv == nil {
		hv = Hypervolume2D
	}

	nObj := len(pfEstimate[0])
	ideal, span := make([]float64, nObj), make([]float64, nObj)
	column := make([]float64, len(pfEstimate))
	for j := range nObj {
		for i, p := range pfEstimate {
			column[i] = p[j]
		}
		ideal[j] = floats.Min(column)
		span[j] = floats.Max(column) - ideal[j]
		if span[j] == 0 {
			span[j] = 1
		}
	}
	normalize := func(points [][]float64) [][]float64 {
		out := make([][]float64, len(points))
		for i, p := range points {
			out[i] = make([]float64, len(p))
			floats.SubTo(out[i], p, ideal)
			floats.Div(out[i], span)
		}
		return out
	}
	ref := make([]float64, nObj)
	for j := range ref {
		ref[j] = 1
	}

	hvEstimate, err := hv(normalize(pfEstimate), ref)
	if err != nil {
		return 0, err
	}
	if hvEstimate <= 0 {
		return 0, nil
	}
	hvF, err := hv(normalize(f), ref)
	if err != nil {
		return 0, err
	}
	return math.Max(0, 1-hvF/hvEstimate), nil
}

// PFDistanceTermination stops an optimization when the smoothed estimated
// Pareto-front distance has settled, or when the iteration budget is spent.
type PFDistanceTermination struct {
	// Tol is the largest change of the smoothed distance that counts as settled.
	Tol float64
	// NFilter is the width of the moving average.
	NFilter int
	// NMaxInfill is the iteration budget.
	NMaxInfill int
	Hypervolume HypervolumeFunc

	history  []float64
	smoothed []float64
}

// NewPFDistanceTermination returns a termination with tolerance 1e-3 and a
// moving average over two iterations.
func NewPFDistanceTermination(nMaxInfill int) *PFDistanceTermination {
	return &PFDistanceTermination{Tol: 1e-3, NFilter: 2, NMaxInfill: nMaxInfill}
}

// Update records the distance of f to pfEstimate for one iteration and
// reports whether the optimization should stop.
func (t *PFDistanceTermination) Update(ctx context.Context, f, pfEstimate [][]float64) (bool, error) {
	logger := klog.FromContext(ctx)
	dist, err := EstimatedPFDistance(f, pfEstimate, t.Hypervolume)
	if err != nil {
		return false, err
	}
	t.history = append(t.history, dist)

	nFilter := max(t.NFilter, 1)
	window := t.history[max(0, len(t.history)-nFilter):]
	t.smoothed = append(t.smoothed, floats.Sum(window)/float64(len(window)))

	iter := len(t.history)
	if t.NMaxInfill > 0 && iter >= t.NMaxInfill {
		logger.V(2).Info("Iteration budget spent", "iterations", iter, "pfDistance", dist)
		return true, nil
	}
	if n := len(t.smoothed); n >= 2 {
		if delta := math.Abs(t.smoothed[n-1] - t.smoothed[n-2]); delta <= t.Tol {
			logger.V(2).Info("Pareto-front distance settled", "iterations", iter, "pfDistance", dist, "delta", delta)
			return true, nil
		}
	}
	return false, nil
}

// History returns the raw distance of every iteration so far.
func (t *PFDistanceTermination) History() []float64 {
	return slices.Clone(t.history)
}
