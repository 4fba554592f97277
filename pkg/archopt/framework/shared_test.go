package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonDominatedSort(t *testing.T) {
	population := []Individual{
		{Objectives: []float64{1, 4}},
		{Objectives: []float64{2, 2}},
		{Objectives: []float64{3, 3}},
		{Objectives: []float64{4, 1}},
		{Objectives: []float64{5, 5}},
	}

	fronts := NonDominatedSort(population)
	if assert.Len(t, fronts, 3) {
		assert.Len(t, fronts[0], 3)
		assert.Len(t, fronts[1], 1)
		assert.Len(t, fronts[2], 1)
	}
	assert.Equal(t, []int{0, 0, 1, 0, 2}, []int{
		population[0].Rank, population[1].Rank, population[2].Rank, population[3].Rank, population[4].Rank,
	})

	for _, a := range fronts[0] {
		for _, b := range fronts[0] {
			assert.False(t, Dominates(a, b))
		}
	}
}

func TestDominatesPoint(t *testing.T) {
	assert.True(t, DominatesPoint([]float64{1, 1}, []float64{1, 2}))
	assert.False(t, DominatesPoint([]float64{1, 1}, []float64{1, 1}))
	assert.False(t, DominatesPoint([]float64{0, 2}, []float64{1, 1}))
	assert.Nil(t, NonDominatedFronts(nil))
}
