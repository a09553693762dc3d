package decode

import (
	"fmt"
	"math"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// probVector expands a histogram into the full 2^width probability
// vector, missing outcomes at zero.
func probVector(counts map[string]int, width int) ([]float64, error) {
	if width <= 0 || width > 30 {
		return nil, fmt.Errorf("stats: bit width %d out of range", width)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, fmt.Errorf("stats: empty histogram")
	}

	n := 1 << width
	p := make([]float64, n)
	for key, c := range counts {
		idx, err := parseBitstring(key, width)
		if err != nil {
			return nil, err
		}
		p[idx] += float64(c) / float64(total)
	}
	return p, nil
}

func parseBitstring(key string, width int) (int, error) {
	if len(key) > width {
		return 0, fmt.Errorf("stats: outcome %q wider than %d bits", key, width)
	}
	idx := 0
	for i := 0; i < len(key); i++ {
		idx <<= 1
		switch key[i] {
		case '0':
		case '1':
			idx |= 1
		default:
			return 0, fmt.Errorf("stats: invalid outcome %q", key)
		}
	}
	return idx, nil
}

// Purity is the sum of squared probabilities over the full outcome
// vector: 1/2^width for uniform noise, 1.0 for a single outcome.
func Purity(counts map[string]int, width int) (float64, error) {
	p, err := probVector(counts, width)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, pi := range p {
		sum += pi * pi
	}
	return sum, nil
}

// Hellinger returns the Hellinger distance between two probability
// vectors of equal length.
func Hellinger(p, q []float64) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("stats: vector lengths %d and %d differ", len(p), len(q))
	}
	sum := 0.0
	for i := range p {
		d := math.Sqrt(p[i]) - math.Sqrt(q[i])
		sum += d * d
	}
	return math.Sqrt(sum) / math.Sqrt2, nil
}

// ZScore measures how far the histogram sits from uniform noise, in
// units of the calibration null spread. The null mean and std come from
// the topology's width-2 calibration pair and are rescaled by
// 4 / 2^width; the std is floored at 0.001 to keep the ratio finite.
func ZScore(counts map[string]int, width int, topo isa.Topology) (float64, error) {
	p, err := probVector(counts, width)
	if err != nil {
		return 0, err
	}

	n := len(p)
	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1.0 / float64(n)
	}
	h, err := Hellinger(p, uniform)
	if err != nil {
		return 0, err
	}

	scale := float64(int(1)<<topo.CalibrationWidth) / float64(n)
	mean := topo.NullMean * scale
	std := math.Max(topo.NullStd*scale, 0.001)
	return (h - mean) / std, nil
}

// Analysis bundles the distribution statistics of one run.
type Analysis struct {
	Dominance float64 `json:"dominance"`
	TopState  string  `json:"top_state"`
	Marginal  bool    `json:"marginal"`
	Purity    float64 `json:"purity"`
	Hellinger float64 `json:"hellinger"`
	ZScore    float64 `json:"z_score"`

	// Significant reports whether ZScore clears the topology threshold.
	Significant bool `json:"significant"`
}

// Analyze computes the full statistics block for a width-bit histogram.
func Analyze(counts map[string]int, width int, topo isa.Topology) (*Analysis, error) {
	p, err := probVector(counts, width)
	if err != nil {
		return nil, err
	}

	n := len(p)
	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1.0 / float64(n)
	}
	h, err := Hellinger(p, uniform)
	if err != nil {
		return nil, err
	}

	purity := 0.0
	for _, pi := range p {
		purity += pi * pi
	}

	scale := float64(int(1)<<topo.CalibrationWidth) / float64(n)
	z := (h - topo.NullMean*scale) / math.Max(topo.NullStd*scale, 0.001)

	score, top, marginal := Dominance(counts, topo.DominanceThreshold)

	return &Analysis{
		Dominance:   score,
		TopState:    top,
		Marginal:    marginal,
		Purity:      purity,
		Hellinger:   h,
		ZScore:      z,
		Significant: z > topo.ZScoreThreshold,
	}, nil
}
