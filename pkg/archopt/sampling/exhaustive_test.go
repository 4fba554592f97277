package sampling

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archopt/archopt/pkg/archopt/benchmarks"
	"github.com/archopt/archopt/pkg/archopt/duplicates"
	"github.com/archopt/archopt/pkg/archopt/framework"
)

func TestExhaustiveSampleValues(t *testing.T) {
	space := framework.DesignSpace{
		framework.NewReal(0, 1),
		framework.NewInteger(1, 3),
		framework.NewChoice("a", "b"),
	}

	want := [][]float64{{0, 0.5, 1}, {1, 2, 3}, {0, 1}}
	if diff := cmp.Diff(want, ExhaustiveSampleValues(space, 3)); diff != "" {
		t.Errorf("unexpected values (-want,+got):\n%s", diff)
	}
	assert.Equal(t, 18., NSampleExhaustive(space, 3))

	want = [][]float64{{0}, {1, 2, 3}, {0, 1}}
	if diff := cmp.Diff(want, ExhaustiveSampleValues(space, 1)); diff != "" {
		t.Errorf("unexpected values (-want,+got):\n%s", diff)
	}
	assert.Equal(t, 6., NSampleExhaustive(space, 1))

	assert.Equal(t, 1e6*2, NSampleExhaustive(wideProblem{}.DesignSpace(), 2))

	got := ExhaustiveSampleValues(framework.DesignSpace{framework.NewReal(-1, 0.2)}, 4)
	if diff := cmp.Diff([][]float64{{-1, -0.6, -0.2, 0.2}}, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("unexpected values (-want,+got):\n%s", diff)
	}
}

func TestAllDiscreteX(t *testing.T) {
	tests := []struct {
		name        string
		problem     framework.Problem
		want        int
		wantWarning bool
	}{
		{name: "mixed", problem: benchmarks.NewMixedZDT1(false), want: 100, wantWarning: true},
		{name: "discrete", problem: benchmarks.NewMixedZDT1(true), want: 55, wantWarning: true},
		{name: "cheap", problem: benchmarks.NewJenatton(), want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &warningRecorder{}
			s := NewHierarchicalExhaustiveSampling(nil, 1)
			s.OnWarning = rec.handler()

			x, isActive, err := s.AllDiscreteX(context.Background(), tt.problem)
			require.NoError(t, err)
			assert.Equal(t, tt.want, x.Rows())
			assert.Equal(t, tt.want, len(isActive))

			if tt.wantWarning {
				require.Len(t, rec.warnings, 1)
				assert.Equal(t, framework.TrialRepairWarning, rec.warnings[0].Kind)
				assert.Equal(t, tt.problem.Name(), rec.warnings[0].Problem)
			} else {
				assert.Empty(t, rec.warnings)
			}

			for _, dup := range duplicates.MarkDuplicates(x, nil) {
				assert.False(t, dup)
			}
			assertRepaired(t, tt.problem, framework.Population{X: x, IsActive: isActive})
		})
	}
}

func TestTrialAndRepairBatching(t *testing.T) {
	p := benchmarks.NewMixedZDT1(true)
	ctx := context.Background()

	ref, refActive, err := NewHierarchicalExhaustiveSampling(nil, 1).AllDiscreteXByTrialAndRepair(ctx, p)
	require.NoError(t, err)

	for _, batchSize := range []int{1, 7, 100, 5000} {
		s := NewHierarchicalExhaustiveSampling(nil, 1)
		s.BatchSize = batchSize
		x, isActive, err := s.AllDiscreteXByTrialAndRepair(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, ref, x, "batch size %d", batchSize)
		assert.Equal(t, refActive, isActive, "batch size %d", batchSize)
	}

	// Candidates are walked in lexicographic order
	assert.Equal(t, []float64{0, 1}, ref[0])
	assert.Equal(t, []float64{0, 2}, ref[1])
}

func TestTrialAndRepairInfeasible(t *testing.T) {
	s := NewHierarchicalExhaustiveSampling(nil, 1)
	s.MaxEnumerate = 50
	_, _, err := s.AllDiscreteX(context.Background(), benchmarks.NewMixedZDT1(false))
	assert.ErrorIs(t, err, framework.ErrEnumerationInfeasible)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewHierarchicalExhaustiveSampling(nil, 1).AllDiscreteX(ctx, benchmarks.NewMixedZDT1(false))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExhaustiveSample(t *testing.T) {
	tests := []struct {
		name    string
		problem framework.Problem
		nCont   int
		want    int
	}{
		// 50 rows with three active continuous variables, 50 with two
		{name: "mixed", problem: benchmarks.NewMixedZDT1(false), nCont: 3, want: 50*27 + 50*9},
		{name: "no expansion", problem: benchmarks.NewMixedZDT1(false), nCont: 1, want: 100},
		{name: "discrete only", problem: benchmarks.NewMixedZDT1(true), nCont: 5, want: 55},
		// Every leaf has two active continuous variables
		{name: "jenatton", problem: benchmarks.NewJenatton(), nCont: 2, want: 4 * 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHierarchicalExhaustiveSampling(nil, tt.nCont)
			pop, err := s.Sample(context.Background(), nil, tt.problem, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pop.Len())
			assert.Equal(t, tt.want, len(pop.IsActive))
			assert.False(t, pop.X.HasNonFinite())

			for _, dup := range duplicates.MarkDuplicates(pop.X, nil) {
				assert.False(t, dup)
			}
			assertRepaired(t, tt.problem, pop)
		})
	}
}
