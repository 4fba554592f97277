package benchmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

func TestMixedZDT1Correction(t *testing.T) {
	p := NewMixedZDT1(false)
	x := framework.Matrix{
		{0.3, 2, 0.4, 3.4, 0.9},
		{1.5, 7, -0.2, 12, 0.9},
	}

	corrected, isActive := p.CorrectX(x)
	assert.Equal(t, framework.Matrix{
		{0.3, 2, 0.4, 3, 0.9},
		{1, 7, 0, 9, 0.5},
	}, corrected)
	assert.Equal(t, []bool{true, true, true, true, true}, isActive[0])
	assert.Equal(t, []bool{true, true, true, true, false}, isActive[1])

	// Input is left untouched
	assert.Equal(t, 3.4, x[0][3])

	again, _ := p.CorrectX(corrected)
	assert.Equal(t, corrected, again)

	assert.Equal(t, "7", p.CategoricalValue(corrected[0]))
	assert.Equal(t, "2", p.CategoricalValue(corrected[1]))
}

func TestMixedZDT1Objectives(t *testing.T) {
	p := NewMixedZDT1(false)
	objs := framework.Evaluate(p, framework.Matrix{{0, 0, 0, 0, 0}}, nil)
	require.Len(t, objs, 1)
	assert.InDelta(t, 0, objs[0].Objectives[0], 1e-12)
	assert.InDelta(t, 1, objs[0].Objectives[1], 1e-12)
}

func TestJenatton(t *testing.T) {
	p := NewJenatton()
	_, _, ok := framework.CheapAllDiscreteX(p)
	assert.True(t, ok)

	x, isActive, ok := p.AllDiscreteX()
	require.True(t, ok)
	require.Equal(t, 4, x.Rows())

	// Every leaf activates one leaf variable and one shared variable
	for i := range x {
		n := 0
		for _, act := range isActive[i][3:] {
			if act {
				n++
			}
		}
		assert.Equal(t, 2, n)
	}

	objs := framework.Evaluate(p, framework.Matrix{{0, 0, 0, 0, 0.5, 0.5, 0.5, 0, 0.5}}, nil)
	assert.InDelta(t, 0.1, objs[0].Objectives[0], 1e-12)
}

func TestZDT1(t *testing.T) {
	p := NewZDT1(30)
	assert.Equal(t, 30, p.DesignSpace().NVar())
	_, _, ok := framework.CheapAllDiscreteX(p)
	assert.False(t, ok)

	front := p.TrueParetoFront(11)
	require.Len(t, front, 11)
	assert.Equal(t, framework.ObjectiveSpacePoint{0, 1}, front[0])
	assert.Equal(t, framework.ObjectiveSpacePoint{1, 0}, front[10])
}
