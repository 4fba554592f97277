package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var estimate = [][]float64{{0, 1}, {0.5, 0.5}, {1, 0}}

func TestHypervolume2D(t *testing.T) {
	points := [][]float64{
		{0.5, 0.5},
		{0.8, 0.2},
		{0.2, 0.8},
		{0.6, 0.6}, // dominated
		{1.2, 0.1}, // outside the reference point
	}
	hv, err := Hypervolume2D(points, []float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.37, hv, 1e-12)

	hv, err = Hypervolume2D(nil, []float64{1, 1})
	require.NoError(t, err)
	assert.Zero(t, hv)

	_, err = Hypervolume2D([][]float64{{0, 0, 0}}, []float64{1, 1, 1})
	assert.ErrorIs(t, err, ErrUnsupportedDimension)
}

func TestEstimatedPFDistance(t *testing.T) {
	tests := []struct {
		name     string
		f        [][]float64
		estimate [][]float64
		want     float64
	}{
		{name: "no points", f: nil, estimate: estimate, want: 1},
		{name: "no estimate", f: [][]float64{{0, 0}}, estimate: nil, want: 1},
		{name: "on the estimate", f: estimate, estimate: estimate, want: 0},
		{name: "partially covered", f: [][]float64{{0.75, 0.75}}, estimate: estimate, want: 0.75},
		{name: "better than the estimate", f: [][]float64{{0.1, 0.1}}, estimate: estimate, want: 0},
		{name: "degenerate estimate", f: [][]float64{{2, 2}}, estimate: [][]float64{{1, 1}}, want: 1},
		{
			name:     "scaled objectives",
			f:        [][]float64{{7.5, 75}},
			estimate: [][]float64{{0, 100}, {5, 50}, {10, 0}},
			want:     0.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimatedPFDistance(tt.f, tt.estimate, nil)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := EstimatedPFDistance([][]float64{{0, 0, 0}}, [][]float64{{0, 0, 1}, {1, 1, 0}}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDimension)
}

func TestPFDistanceTermination(t *testing.T) {
	ctx := context.Background()

	t.Run("settles", func(t *testing.T) {
		term := NewPFDistanceTermination(100)
		done, err := term.Update(ctx, [][]float64{{0.75, 0.75}}, estimate)
		require.NoError(t, err)
		assert.False(t, done)

		done, err = term.Update(ctx, [][]float64{{0.75, 0.75}}, estimate)
		require.NoError(t, err)
		assert.True(t, done)
		assert.InDeltaSlice(t, []float64{0.75, 0.75}, term.History(), 1e-12)
	})

	t.Run("budget", func(t *testing.T) {
		term := NewPFDistanceTermination(3)
		fs := [][][]float64{{{0.75, 0.75}}, {{0.5, 0.5}}, {{0.5, 0.5}}}
		var stops []bool
		for _, f := range fs {
			done, err := term.Update(ctx, f, estimate)
			require.NoError(t, err)
			stops = append(stops, done)
		}
		assert.Equal(t, []bool{false, false, true}, stops)
	})
}
