package framework

import "math"

// Repair maps arbitrary design vectors to valid ones. The returned mask may be
// nil, meaning every cell is considered active.
type Repair interface {
	Do(p Problem, x Matrix) (Matrix, Mask)
}

// ArchOptRepair repairs and imputes design vectors through the problem's own
// correction routine.
type ArchOptRepair struct{}

func (ArchOptRepair) Do(p Problem, x Matrix) (Matrix, Mask) {
	if x.Rows() == 0 {
		return Matrix{}, Mask{}
	}
	return p.CorrectX(x)
}

// RoundingRepair rounds every discrete column to the nearest integer within
// the bounds. It does not know about activeness.
type RoundingRepair struct{}

func (RoundingRepair) Do(p Problem, x Matrix) (Matrix, Mask) {
	space := p.DesignSpace()
	out := x.Clone()
	for _, row := range out {
		for j, v := range space {
			if v.IsCont() {
				continue
			}
			row[j] = math.Min(v.Upper, math.Max(v.Lower, math.Round(row[j])))
		}
	}
	return out, nil
}

// OrAllActive returns isActive, or a fully active mask shaped like x if isActive is nil.
func OrAllActive(x Matrix, isActive Mask) Mask {
	if isActive != nil {
		return isActive
	}
	return NewMask(x.Rows(), x.Cols(), true)
}
