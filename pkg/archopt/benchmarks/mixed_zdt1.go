package benchmarks

import (
	"strconv"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// MixedZDT1 is ZDT1 over a mixed-discrete, hierarchical design space. The
// last variable is only active when the categorical variable selects one of
// its first five options.
//
// In the default configuration the design space is
// [real, choice(10), real, integer(0..9), real], giving 100 valid discrete
// design vectors. With onlyDiscrete it is [choice(10), integer(1..10)], where
// the integer is conditionally active, giving 10*5 + 5 = 55.
//
// MixedZDT1 does not enumerate its own discrete design space, so samplers
// have to fall back to trial and repair.
type MixedZDT1 struct {
	onlyDiscrete bool
	space        framework.DesignSpace
}

func NewMixedZDT1(onlyDiscrete bool) *MixedZDT1 {
	options := make([]string, 10)
	for j := range options {
		options[j] = strconv.Itoa(9 - j)
	}

	var space framework.DesignSpace
	if onlyDiscrete {
		space = framework.DesignSpace{
			framework.NewChoice(options...),
			framework.NewInteger(1, 10),
		}
	} else {
		for i := 0; i < 5; i++ {
			switch {
			case i%2 == 0:
				space = append(space, framework.NewReal(0, 1))
			case i == 1:
				space = append(space, framework.NewChoice(options...))
			default:
				space = append(space, framework.NewInteger(0, 9))
			}
		}
	}
	return &MixedZDT1{onlyDiscrete: onlyDiscrete, space: space}
}

func (p *MixedZDT1) Name() string {
	if p.onlyDiscrete {
		return "MixedZDT1Discrete"
	}
	return "MixedZDT1"
}

func (p *MixedZDT1) DesignSpace() framework.DesignSpace {
	return p.space
}

// NValidDiscrete returns the analytical number of valid discrete design vectors.
func (p *MixedZDT1) NValidDiscrete() int {
	if p.onlyDiscrete {
		return 10*5 + 5
	}
	return 10 * 10
}

func (p *MixedZDT1) catColumn() int {
	if p.onlyDiscrete {
		return 0
	}
	return 1
}

func (p *MixedZDT1) activeness(x []float64, isActive []bool) {
	isActive[len(isActive)-1] = x[p.catColumn()] < 5
}

func (p *MixedZDT1) CorrectX(x framework.Matrix) (framework.Matrix, framework.Mask) {
	return correctX(p.space, x, p.activeness)
}

func (p *MixedZDT1) ImputeX(x framework.Matrix, isActive framework.Mask) framework.Matrix {
	return imputeX(p.space, x.Clone(), isActive)
}

func (p *MixedZDT1) scaled(x []float64) []float64 {
	xs := make([]float64, len(x))
	for j, v := range p.space {
		if v.IsCont() {
			xs[j] = x[j]
			continue
		}
		xs[j] = (x[j] - v.Lower) / 9
	}
	return xs
}

func (p *MixedZDT1) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		func(x []float64) float64 {
			f1, _ := zdt1(p.scaled(x))
			return f1
		},
		func(x []float64) float64 {
			_, f2 := zdt1(p.scaled(x))
			return f2
		},
	}
}

// TrueParetoFront is the front of the underlying ZDT1 problem.
func (p *MixedZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	return zdt1Front(numPoints)
}

// CategoricalValue returns the option label selected in row x.
func (p *MixedZDT1) CategoricalValue(x []float64) string {
	col := p.catColumn()
	return p.space[col].Options[int(x[col])]
}
