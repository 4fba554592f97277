package framework

import "errors"

var (
	// ErrInvalidSampleCount is returned when a non-positive number of samples is requested.
	ErrInvalidSampleCount = errors.New("number of samples must be positive")
	// ErrEnumerationInfeasible is returned when the discrete design space is too large to enumerate.
	ErrEnumerationInfeasible = errors.New("exhaustive enumeration is infeasible")
)

// WarningKind classifies degraded-mode diagnostics.
type WarningKind string

const (
	// TrialRepairWarning is emitted when discrete design vectors are generated
	// by trial and repair, or when hierarchical sampling is not possible at all.
	// Problems triggering it should implement DiscreteEnumerator.
	TrialRepairWarning WarningKind = "TrialRepairWarning"
)

// Warning is a diagnostic about a recovered, degraded-mode condition.
type Warning struct {
	Kind    WarningKind
	Problem string
	Message string
}

func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}

// WarningHandler receives diagnostics. A nil handler discards them.
type WarningHandler func(Warning)

// Emit calls h if it is set.
func (h WarningHandler) Emit(w Warning) {
	if h != nil {
		h(w)
	}
}
