package framework

import (
	"fmt"
	"math"
)

// VarType identifies the kind of a design variable.
type VarType int

const (
	// Real is a bounded continuous variable.
	Real VarType = iota
	// Integer is a bounded ordinal variable.
	Integer
	// Binary is a 0/1 variable.
	Binary
	// Choice is a categorical variable, encoded as the index of the selected option.
	Choice
)

func (t VarType) String() string {
	switch t {
	case Real:
		return "real"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	case Choice:
		return "choice"
	}
	return fmt.Sprintf("VarType(%d)", int(t))
}

// Variable is a single design variable. Categorical and binary variables have
// their bounds derived from the number of options.
type Variable struct {
	Type    VarType
	Lower   float64
	Upper   float64
	Options []string
}

func NewReal(lower, upper float64) Variable {
	return Variable{Type: Real, Lower: lower, Upper: upper}
}

func NewInteger(lower, upper int) Variable {
	return Variable{Type: Integer, Lower: float64(lower), Upper: float64(upper)}
}

func NewBinary() Variable {
	return Variable{Type: Binary, Lower: 0, Upper: 1}
}

func NewChoice(options ...string) Variable {
	return Variable{Type: Choice, Lower: 0, Upper: float64(len(options) - 1), Options: options}
}

// IsCont reports whether the variable takes continuous values.
func (v Variable) IsCont() bool {
	return v.Type == Real
}

// NOptions returns the number of discrete values the variable can take, or 0
// for continuous variables.
func (v Variable) NOptions() int {
	if v.IsCont() {
		return 0
	}
	return int(math.Round(v.Upper-v.Lower)) + 1
}

// DesignSpace is the ordered list of design variables of a problem. The
// position of a variable is its column in every design vector.
type DesignSpace []Variable

func (ds DesignSpace) NVar() int {
	return len(ds)
}

// Bounds returns the lower and upper bound of every column.
func (ds DesignSpace) Bounds() ([]float64, []float64) {
	xl := make([]float64, len(ds))
	xu := make([]float64, len(ds))
	for i, v := range ds {
		xl[i] = v.Lower
		xu[i] = v.Upper
	}
	return xl, xu
}

func (ds DesignSpace) IsContMask() []bool {
	mask := make([]bool, len(ds))
	for i, v := range ds {
		mask[i] = v.IsCont()
	}
	return mask
}

func (ds DesignSpace) IsDiscreteMask() []bool {
	mask := make([]bool, len(ds))
	for i, v := range ds {
		mask[i] = !v.IsCont()
	}
	return mask
}

func (ds DesignSpace) IsCatMask() []bool {
	mask := make([]bool, len(ds))
	for i, v := range ds {
		mask[i] = v.Type == Choice
	}
	return mask
}

// HasCont reports whether at least one variable is continuous.
func (ds DesignSpace) HasCont() bool {
	for _, v := range ds {
		if v.IsCont() {
			return true
		}
	}
	return false
}

// Validate checks that bounds are ordered and that discrete bounds are integral.
func (ds DesignSpace) Validate() error {
	if len(ds) == 0 {
		return fmt.Errorf("design space has no variables")
	}
	for i, v := range ds {
		if math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || v.Upper < v.Lower {
			return fmt.Errorf("variable %d (%s): invalid bounds [%v, %v]", i, v.Type, v.Lower, v.Upper)
		}
		if v.Type == Choice && len(v.Options) == 0 {
			return fmt.Errorf("variable %d: categorical variable without options", i)
		}
		if !v.IsCont() && (v.Lower != math.Trunc(v.Lower) || v.Upper != math.Trunc(v.Upper)) {
			return fmt.Errorf("variable %d (%s): bounds must be integral", i, v.Type)
		}
	}
	return nil
}

// TypeGroup is a set of columns that share a variable type and are recombined
// together.
type TypeGroup struct {
	Type    VarType
	Columns []int
}

// GroupByType partitions the columns of the design space by variable type.
// Categorical variables each get their own group because every one of them
// has its own set of options. Groups are ordered by first appearance.
func GroupByType(ds DesignSpace) []TypeGroup {
	var groups []TypeGroup
	byType := map[VarType]int{}
	for i, v := range ds {
		if v.Type == Choice {
			groups = append(groups, TypeGroup{Type: Choice, Columns: []int{i}})
			continue
		}
		idx, ok := byType[v.Type]
		if !ok {
			idx = len(groups)
			byType[v.Type] = idx
			groups = append(groups, TypeGroup{Type: v.Type})
		}
		groups[idx].Columns = append(groups[idx].Columns, i)
	}
	return groups
}

// Sub returns the design space restricted to the given columns.
func (ds DesignSpace) Sub(columns []int) DesignSpace {
	sub := make(DesignSpace, len(columns))
	for i, c := range columns {
		sub[i] = ds[c]
	}
	return sub
}
