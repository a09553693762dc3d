package isa

// Topology holds the physical parameters for a compilation.
//
// These values are opaque configuration to the compiler: they are angles,
// thresholds and calibration constants verified against hardware, not
// quantities the compiler reasons about. A Topology value is threaded
// explicitly through every constructor so that independent compilations
// never share mutable state.
type Topology struct {
	// Pole angles. ThetaRobust encodes logical 0, ThetaFisher logical 1,
	// ThetaEdge the superposition sentinel written by the H literal.
	ThetaRobust  float64 `json:"theta_robust"`
	ThetaEdge    float64 `json:"theta_edge"`
	ThetaFisher  float64 `json:"theta_fisher"`
	ThetaMaxInfo float64 `json:"theta_max_info"`

	// Safe operating range. Thetas are clamped into [ThetaMin, ThetaMax]
	// during lowering unless the compiler runs unsafe.
	ThetaMin float64 `json:"theta_min"`
	ThetaMax float64 `json:"theta_max"`

	// PoleTolerance is the half-width for classifying a theta as sitting
	// on a pole. Thetas outside every pole's tolerance read as
	// undetermined.
	PoleTolerance float64 `json:"pole_tolerance"`

	// Complexity is the number of hardening iterations per soliton.
	// Below ComplexityMin the geometry is known to break; the Heap
	// surfaces this as an advisory warning, never a hard failure.
	Complexity    int `json:"complexity"`
	ComplexityMin int `json:"complexity_min"`

	// MaxCores bounds the number of logical solitons (2×MaxCores
	// physical slots).
	MaxCores int `json:"max_cores"`

	// Shots is the default sample count per execution.
	Shots int `json:"shots"`

	// DominanceThreshold marks readings whose top outcome carries less
	// probability mass as marginal.
	DominanceThreshold float64 `json:"dominance_threshold"`

	// ZScoreThreshold is the signal bar for the Hellinger z-score.
	ZScoreThreshold float64 `json:"z_score_threshold"`

	// NullMean and NullStd are the pre-calibrated null-hypothesis pair
	// for the Hellinger z-score, measured at CalibrationWidth bits and
	// rescaled proportionally for other widths.
	NullMean         float64 `json:"null_mean"`
	NullStd          float64 `json:"null_std"`
	CalibrationWidth int     `json:"calibration_width"`
}

// DefaultTopology returns the verified parameter set.
func DefaultTopology() Topology {
	return Topology{
		ThetaRobust:        0.0,
		ThetaEdge:          0.1,
		ThetaFisher:        0.196,
		ThetaMaxInfo:       0.4,
		ThetaMin:           0.0,
		ThetaMax:           0.4,
		PoleTolerance:      0.05,
		Complexity:         6,
		ComplexityMin:      4,
		MaxCores:           16,
		Shots:              4096,
		DominanceThreshold: 0.85,
		ZScoreThreshold:    14.0,
		NullMean:           0.008,
		NullStd:            0.0037,
		CalibrationWidth:   2,
	}
}

// GraySequence is the value ordering in which each step flips exactly one
// bit: 00 → 01 → 11 → 10.
var GraySequence = [4]int{0, 1, 3, 2}

// GrayThetas maps each Gray level to its pole angle, in GraySequence order
// of levels 0..3.
func (t Topology) GrayThetas() [4]float64 {
	return [4]float64{t.ThetaRobust, t.ThetaEdge, t.ThetaFisher, t.ThetaMaxInfo}
}

// Clamp restricts theta to the safe operating range.
func (t Topology) Clamp(theta float64) float64 {
	if theta < t.ThetaMin {
		return t.ThetaMin
	}
	if theta > t.ThetaMax {
		return t.ThetaMax
	}
	return theta
}

// InSafeRange reports whether theta lies inside [ThetaMin, ThetaMax].
func (t Topology) InSafeRange(theta float64) bool {
	return theta >= t.ThetaMin && theta <= t.ThetaMax
}
