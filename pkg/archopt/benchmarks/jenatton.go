package benchmarks

import (
	"github.com/archopt/archopt/pkg/archopt/framework"
)

// Jenatton is the tree-structured single-objective test function from
// Jenatton et al. (2017), "Bayesian Optimization with Tree-structured
// Dependencies". Three binary variables select one of four leaves, each leaf
// activates one continuous variable plus a shared one:
//
//	x1=0, x2=0: f = x4^2 + 0.1 + r8
//	x1=0, x2=1: f = x5^2 + 0.2 + r8
//	x1=1, x3=0: f = x6^2 + 0.3 + r9
//	x1=1, x3=1: f = x7^2 + 0.4 + r9
//
// It enumerates its own discrete design space.
type Jenatton struct{}

func NewJenatton() *Jenatton {
	return &Jenatton{}
}

func (p *Jenatton) Name() string {
	return "Jenatton"
}

func (p *Jenatton) DesignSpace() framework.DesignSpace {
	ds := framework.DesignSpace{framework.NewBinary(), framework.NewBinary(), framework.NewBinary()}
	for i := 0; i < 6; i++ {
		ds = append(ds, framework.NewReal(0, 1))
	}
	return ds
}

func (p *Jenatton) activeness(x []float64, isActive []bool) {
	left := x[0] == 0
	isActive[1] = left
	isActive[2] = !left
	isActive[3] = left && x[1] == 0
	isActive[4] = left && x[1] == 1
	isActive[5] = !left && x[2] == 0
	isActive[6] = !left && x[2] == 1
	isActive[7] = left
	isActive[8] = !left
}

func (p *Jenatton) CorrectX(x framework.Matrix) (framework.Matrix, framework.Mask) {
	return correctX(p.DesignSpace(), x, p.activeness)
}

// AllDiscreteX returns the four valid combinations of the binary variables.
func (p *Jenatton) AllDiscreteX() (framework.Matrix, framework.Mask, bool) {
	x := framework.NewMatrix(4, 9)
	for i, discrete := range [][3]float64{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 0, 1}} {
		copy(x[i], discrete[:])
	}
	corrected, isActive := p.CorrectX(x)
	return corrected, isActive, true
}

func (p *Jenatton) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f}
}

func (p *Jenatton) f(x []float64) float64 {
	if x[0] == 0 {
		if x[1] == 0 {
			return x[3]*x[3] + 0.1 + x[7]
		}
		return x[4]*x[4] + 0.2 + x[7]
	}
	if x[2] == 0 {
		return x[5]*x[5] + 0.3 + x[8]
	}
	return x[6]*x[6] + 0.4 + x[8]
}

// TrueParetoFront is the single optimum f = 0.1.
func (p *Jenatton) TrueParetoFront(int) []framework.ObjectiveSpacePoint {
	return []framework.ObjectiveSpacePoint{{0.1}}
}
