package benchmarks

import (
	"github.com/archopt/archopt/pkg/archopt/framework"
)

const (
	Name = "ZDT1"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
//
// All of its variables are continuous and always active.
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return Name
}

func (p *ZDT1) DesignSpace() framework.DesignSpace {
	ds := make(framework.DesignSpace, p.numVars)
	for i := range ds {
		ds[i] = framework.NewReal(0, 1)
	}
	return ds
}

func (p *ZDT1) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		p.f1, p.f2,
	}
}

func (p *ZDT1) f1(x []float64) float64 {
	f1, _ := zdt1(x)
	return f1
}

func (p *ZDT1) f2(x []float64) float64 {
	_, f2 := zdt1(x)
	return f2
}

func (p *ZDT1) CorrectX(x framework.Matrix) (framework.Matrix, framework.Mask) {
	return correctX(p.DesignSpace(), x, nil)
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	return zdt1Front(numPoints)
}
