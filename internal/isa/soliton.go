package isa

import "math"

// Undetermined is returned by pole classification when a theta sits on
// neither logical pole within tolerance.
const Undetermined = -1

// Soliton is a logical two-level value backed by a fixed pair of physical
// slots. The pair is assigned once at allocation and never changes or is
// freed.
type Soliton struct {
	Name  string  `json:"name"`
	Theta float64 `json:"theta"`

	// Phase is the even-indexed slot holding orientation. It is never
	// measured.
	Phase int `json:"phase"`

	// Data is the odd-indexed slot that carries the value.
	Data int `json:"data"`

	topo Topology
}

// LogicalState classifies the current theta: 0 at the robust pole, 1 at
// the fisher pole, Undetermined anywhere else (edge or mid-transition).
func (s *Soliton) LogicalState() int {
	switch {
	case nearPole(s.Theta, s.topo.ThetaRobust, s.topo.PoleTolerance):
		return 0
	case nearPole(s.Theta, s.topo.ThetaFisher, s.topo.PoleTolerance):
		return 1
	default:
		return Undetermined
	}
}

// Write snaps theta to the pole for value 0 or 1.
func (s *Soliton) Write(value int) error {
	switch value {
	case 0:
		s.Theta = s.topo.ThetaRobust
	case 1:
		s.Theta = s.topo.ThetaFisher
	default:
		return &InvalidValueError{Op: OpWrite, Message: "logical value must be 0 or 1"}
	}
	return nil
}

// WriteEdge sets theta to the superposition sentinel pole.
func (s *Soliton) WriteEdge() {
	s.Theta = s.topo.ThetaEdge
}

// Roll flips strictly between the two logical poles. A theta at the
// robust pole moves to fisher; any other theta, including the edge
// sentinel, snaps to robust. Roll is not a general rotation.
func (s *Soliton) Roll() {
	if nearPole(s.Theta, s.topo.ThetaRobust, s.topo.PoleTolerance) {
		s.Theta = s.topo.ThetaFisher
	} else {
		s.Theta = s.topo.ThetaRobust
	}
}

// GrayLevel returns the Gray-code level (0..3) whose pole angle is
// nearest to the current theta.
func (s *Soliton) GrayLevel() int {
	thetas := s.topo.GrayThetas()
	best, bestDist := 0, math.Abs(s.Theta-thetas[0])
	for i := 1; i < len(thetas); i++ {
		if d := math.Abs(s.Theta - thetas[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return GraySequence[best]
}

func nearPole(theta, pole, tol float64) bool {
	return math.Abs(theta-pole) <= tol
}
