package framework

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedSpace() DesignSpace {
	return DesignSpace{
		NewReal(0, 1),
		NewChoice("a", "b", "c"),
		NewInteger(0, 9),
		NewChoice("x", "y"),
		NewReal(-1, 1),
		NewBinary(),
	}
}

func TestDesignSpaceMasks(t *testing.T) {
	ds := mixedSpace()

	xl, xu := ds.Bounds()
	assert.Equal(t, []float64{0, 0, 0, 0, -1, 0}, xl)
	assert.Equal(t, []float64{1, 2, 9, 1, 1, 1}, xu)

	assert.Equal(t, []bool{true, false, false, false, true, false}, ds.IsContMask())
	assert.Equal(t, []bool{false, true, true, true, false, true}, ds.IsDiscreteMask())
	assert.Equal(t, []bool{false, true, false, true, false, false}, ds.IsCatMask())
	assert.True(t, ds.HasCont())
	assert.Equal(t, 3, ds[1].NOptions())
	assert.Equal(t, 10, ds[2].NOptions())
	assert.Equal(t, 0, ds[0].NOptions())
}

func TestGroupByType(t *testing.T) {
	groups := GroupByType(mixedSpace())

	want := []TypeGroup{
		{Type: Real, Columns: []int{0, 4}},
		{Type: Choice, Columns: []int{1}},
		{Type: Integer, Columns: []int{2}},
		{Type: Choice, Columns: []int{3}},
		{Type: Binary, Columns: []int{5}},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("GroupByType() mismatch (-want +got):\n%s", diff)
	}
}

func TestDesignSpaceValidate(t *testing.T) {
	tests := []struct {
		name    string
		space   DesignSpace
		wantErr string
	}{
		{name: "valid", space: mixedSpace()},
		{name: "empty", space: DesignSpace{}, wantErr: "no variables"},
		{name: "inverted bounds", space: DesignSpace{NewReal(1, 0)}, wantErr: "invalid bounds"},
		{name: "no options", space: DesignSpace{NewChoice()}, wantErr: "invalid bounds"},
		{name: "fractional integer", space: DesignSpace{{Type: Integer, Lower: 0, Upper: 1.5}}, wantErr: "integral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.space.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatrixOwnership(t *testing.T) {
	m := Matrix{{1, 2}, {3, 4}, {5, 6}}
	c := m.Clone()
	c[0][0] = 100
	assert.Equal(t, 1.0, m[0][0])

	sel := m.SelectRows([]int{2, 0})
	assert.Equal(t, Matrix{{5, 6}, {1, 2}}, sel)
	sel[0][0] = -1
	assert.Equal(t, 5.0, m[2][0])

	assert.Equal(t, Matrix{{2}, {4}, {6}}, m.SubColumns([]int{1}))
	assert.Equal(t, 5, m.Append(Matrix{{7, 8}, {9, 10}}).Rows())
	assert.False(t, m.HasNonFinite())
}

func TestActiveDiscreteCount(t *testing.T) {
	isActive := Mask{
		{true, true, false},
		{true, false, false},
		{true, true, true},
	}
	isCont := []bool{true, false, false}
	assert.Equal(t, []int{1, 0, 2}, ActiveDiscreteCount(isActive, isCont))
}
