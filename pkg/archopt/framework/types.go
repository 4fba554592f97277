package framework

// Individual represents an evaluated design in a population.
type Individual struct {
	X          []float64
	IsActive   []bool
	Objectives []float64

	// Rank is NSGA-II specific
	Rank int
	// Distance is NSGA-II specific
	Distance float64
}

// ObjectiveFunc defines the interface for objective functions
type ObjectiveFunc func([]float64) float64

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Problem describes the contract an architecture optimization problem needs to implement.
type Problem interface {
	Name() string

	// DesignSpace returns the ordered design variables. It must not change
	// between calls.
	DesignSpace() DesignSpace

	ObjectiveFuncs() []ObjectiveFunc

	// TrueParetoFront is optional due to the difficulty of finding the true front
	// in some types of problems. When there isn't a way to find the true front,
	// just return nil.
	TrueParetoFront(int) []ObjectiveSpacePoint

	// CorrectX repairs the design vectors to valid, hierarchically consistent
	// ones and imputes inactive variables. It returns a new matrix together with
	// the activeness of every cell; x is not modified.
	CorrectX(x Matrix) (Matrix, Mask)
}

// DiscreteEnumerator is implemented by problems that can cheaply produce all
// valid discrete design vectors. ok is false when the problem cannot do so
// for the current configuration.
type DiscreteEnumerator interface {
	AllDiscreteX() (x Matrix, isActive Mask, ok bool)
}

// Imputer is implemented by problems that can impute inactive variables
// without doing a full correction.
type Imputer interface {
	ImputeX(x Matrix, isActive Mask) Matrix
}

// CheapAllDiscreteX returns a copy of the problem's own enumeration of the
// discrete design space. ok is false if the problem has none, or if it yields
// no rows: a valid design space always has at least one discrete vector.
func CheapAllDiscreteX(p Problem) (x Matrix, isActive Mask, ok bool) {
	e, ok := p.(DiscreteEnumerator)
	if !ok {
		return nil, nil, false
	}
	x, isActive, ok = e.AllDiscreteX()
	if !ok || x.Rows() == 0 {
		return nil, nil, false
	}
	return x.Clone(), OrAllActive(x, isActive).Clone(), true
}

// Algorithm describes the contract that a MOO algorithm needs to implement.
type Algorithm interface {
	Name() string
}

// Evaluate computes the objective values of every row of x.
func Evaluate(p Problem, x Matrix, isActive Mask) []Individual {
	funcs := p.ObjectiveFuncs()
	out := make([]Individual, x.Rows())
	for i, row := range x {
		objs := make([]float64, len(funcs))
		for j, f := range funcs {
			objs[j] = f(row)
		}
		out[i] = Individual{X: append([]float64(nil), row...), Objectives: objs}
		if isActive != nil {
			out[i].IsActive = append([]bool(nil), isActive[i]...)
		}
	}
	return out
}
