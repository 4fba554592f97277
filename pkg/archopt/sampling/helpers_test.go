package sampling

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// wideProblem has six categorical variables with ten options each and a
// real variable that is only active if the first option is selected.
type wideProblem struct{}

func (wideProblem) Name() string { return "Wide" }

func (wideProblem) DesignSpace() framework.DesignSpace {
	opts := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	var ds framework.DesignSpace
	for i := 0; i < 6; i++ {
		ds = append(ds, framework.NewChoice(opts...))
	}
	return append(ds, framework.NewReal(-1, 1))
}

func (wideProblem) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{func(x []float64) float64 { return x[0] + x[6] }}
}

func (wideProblem) TrueParetoFront(int) []framework.ObjectiveSpacePoint { return nil }

func (p wideProblem) CorrectX(x framework.Matrix) (framework.Matrix, framework.Mask) {
	space := p.DesignSpace()
	out, _ := framework.RoundingRepair{}.Do(p, x)
	isActive := framework.NewMask(out.Rows(), space.NVar(), true)
	for i, row := range out {
		row[6] = math.Min(1, math.Max(-1, row[6]))
		if row[0] != 0 {
			isActive[i][6] = false
			row[6] = 0
		}
	}
	return out, isActive
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

type warningRecorder struct {
	warnings []framework.Warning
}

func (r *warningRecorder) handler() framework.WarningHandler {
	return func(w framework.Warning) {
		r.warnings = append(r.warnings, w)
	}
}

// assertRepaired checks that repairing the population changes nothing.
func assertRepaired(t *testing.T, p framework.Problem, pop framework.Population) {
	t.Helper()
	corrected, isActive := p.CorrectX(pop.X)
	assert.Equal(t, pop.X, corrected)
	if pop.IsActive != nil {
		assert.Equal(t, pop.IsActive, framework.OrAllActive(corrected, isActive))
	}
}
