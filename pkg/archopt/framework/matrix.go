package framework

import "math"

// Matrix holds one design vector per row. All variables are stored as
// float64, categorical variables as option indices.
type Matrix [][]float64

// Mask holds one activeness vector per row, parallel to a Matrix.
type Mask [][]bool

func NewMatrix(rows, cols int) Matrix {
	data := make([]float64, rows*cols)
	m := make(Matrix, rows)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

func (m Matrix) Rows() int {
	return len(m)
}

func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy that shares no memory with m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := NewMatrix(m.Rows(), m.Cols())
	for i, row := range m {
		copy(out[i], row)
	}
	return out
}

// SelectRows copies the given rows into a new matrix.
func (m Matrix) SelectRows(idx []int) Matrix {
	out := NewMatrix(len(idx), m.Cols())
	for i, j := range idx {
		copy(out[i], m[j])
	}
	return out
}

// Column copies column j.
func (m Matrix) Column(j int) []float64 {
	col := make([]float64, len(m))
	for i, row := range m {
		col[i] = row[j]
	}
	return col
}

// SubColumns copies the given columns of every row into a new matrix.
func (m Matrix) SubColumns(columns []int) Matrix {
	out := NewMatrix(m.Rows(), len(columns))
	for i, row := range m {
		for k, c := range columns {
			out[i][k] = row[c]
		}
	}
	return out
}

// HasNonFinite reports whether any cell is NaN or infinite.
func (m Matrix) HasNonFinite() bool {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// Append returns a new matrix with the rows of m followed by the rows of other.
func (m Matrix) Append(other Matrix) Matrix {
	cols := m.Cols()
	if cols == 0 {
		cols = other.Cols()
	}
	out := NewMatrix(m.Rows()+other.Rows(), cols)
	for i, row := range m {
		copy(out[i], row)
	}
	for i, row := range other {
		copy(out[m.Rows()+i], row)
	}
	return out
}

func NewMask(rows, cols int, value bool) Mask {
	data := make([]bool, rows*cols)
	if value {
		for i := range data {
			data[i] = true
		}
	}
	m := make(Mask, rows)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

func (m Mask) Clone() Mask {
	if m == nil {
		return nil
	}
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	out := NewMask(len(m), cols, false)
	for i, row := range m {
		copy(out[i], row)
	}
	return out
}

func (m Mask) SelectRows(idx []int) Mask {
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	out := NewMask(len(idx), cols, false)
	for i, j := range idx {
		copy(out[i], m[j])
	}
	return out
}

func (m Mask) Append(other Mask) Mask {
	cols := 0
	switch {
	case len(m) > 0:
		cols = len(m[0])
	case len(other) > 0:
		cols = len(other[0])
	}
	out := NewMask(len(m)+len(other), cols, false)
	for i, row := range m {
		copy(out[i], row)
	}
	for i, row := range other {
		copy(out[len(m)+i], row)
	}
	return out
}

// Population is a set of design vectors with their (optional) activeness.
// IsActive is nil when activeness is unknown.
type Population struct {
	X        Matrix
	IsActive Mask
}

func (p Population) Len() int {
	return p.X.Rows()
}

// SelectRows returns a new population holding the given rows.
func (p Population) SelectRows(idx []int) Population {
	out := Population{X: p.X.SelectRows(idx)}
	if p.IsActive != nil {
		out.IsActive = p.IsActive.SelectRows(idx)
	}
	return out
}

// ActiveDiscreteCount returns, per row, how many discrete variables are active.
func ActiveDiscreteCount(isActive Mask, isCont []bool) []int {
	counts := make([]int, len(isActive))
	for i, row := range isActive {
		for j, act := range row {
			if act && !isCont[j] {
				counts[i]++
			}
		}
	}
	return counts
}
