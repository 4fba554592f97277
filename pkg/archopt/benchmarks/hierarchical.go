package benchmarks

import (
	"math"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// activenessFunc fills the activeness of a single, already clipped and
// rounded, design vector.
type activenessFunc func(x []float64, isActive []bool)

// correctX clips every row to the bounds, rounds discrete variables, applies
// the activeness rules and imputes inactive variables: discrete ones to their
// lower bound, continuous ones to the middle of their bounds.
func correctX(space framework.DesignSpace, x framework.Matrix, activeness activenessFunc) (framework.Matrix, framework.Mask) {
	out := x.Clone()
	isActive := framework.NewMask(x.Rows(), space.NVar(), true)
	for i, row := range out {
		for j, v := range space {
			val := math.Min(v.Upper, math.Max(v.Lower, row[j]))
			if !v.IsCont() {
				val = math.Round(val)
			}
			row[j] = val
		}
		if activeness != nil {
			activeness(row, isActive[i])
		}
	}
	return imputeX(space, out, isActive), isActive
}

func imputeX(space framework.DesignSpace, x framework.Matrix, isActive framework.Mask) framework.Matrix {
	for i, row := range x {
		for j, v := range space {
			if isActive[i][j] {
				continue
			}
			if v.IsCont() {
				row[j] = 0.5 * (v.Lower + v.Upper)
			} else {
				row[j] = v.Lower
			}
		}
	}
	return x
}

// zdt1 evaluates the ZDT1 objectives on x, which must be scaled to [0, 1].
func zdt1(x []float64) (float64, float64) {
	g := 1.0
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	return x[0], g * (1.0 - math.Sqrt(x[0]/g))
}

func zdt1Front(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{
			x, 1.0 - math.Sqrt(x),
		}
	}
	return points
}
