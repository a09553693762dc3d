package runtime

import (
	"context"
	"fmt"
	"math"

	"github.com/CurrenlyDying/lockworks/internal/circuit"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// Backend executes a lowered sequence for a number of shots and returns
// the outcome histogram. Keys are bitstrings with result bit 0 rightmost.
type Backend interface {
	Execute(ctx context.Context, seq *circuit.Sequence, shots int) (map[string]int, error)
}

// SimBackend is a deterministic simulator. It reads the ideal outcome
// straight off the sequence: each measured data slot takes the value
// implied by the last ROTATE_X angle on its phase slot, an edge angle
// splits its mass across both branches, and the Noise fraction of shots
// is spread uniformly over every outcome. Identical inputs always yield
// identical histograms.
type SimBackend struct {
	topo isa.Topology

	// Noise is the fraction of shots scattered uniformly, in [0, 1).
	Noise float64
}

// NewSimBackend creates a simulator for the given topology.
func NewSimBackend(topo isa.Topology) *SimBackend {
	return &SimBackend{topo: topo}
}

// Execute implements Backend.
func (b *SimBackend) Execute(ctx context.Context, seq *circuit.Sequence, shots int) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if shots <= 0 {
		return nil, fmt.Errorf("sim: shot count must be positive, got %d", shots)
	}
	if b.Noise < 0 || b.Noise >= 1 {
		return nil, fmt.Errorf("sim: noise fraction %g out of [0,1)", b.Noise)
	}

	// last rotation angle per phase slot
	angles := make(map[int]float64)
	var measures []circuit.Op
	for _, op := range seq.Ops {
		switch op.Kind {
		case circuit.KindRotateX:
			angles[op.Slots[0]] = op.Angle
		case circuit.KindMeasure:
			measures = append(measures, op)
		}
	}
	if len(measures) == 0 {
		return nil, fmt.Errorf("sim: sequence has no measurements")
	}

	// possible values per result bit; the phase slot sits one below the
	// measured data slot
	choices := make([][]byte, len(measures))
	for _, m := range measures {
		theta, ok := angles[m.Slots[0]-1]
		if !ok {
			theta = b.topo.ThetaRobust
		}
		var ch []byte
		switch {
		case math.Abs(theta-b.topo.ThetaRobust) <= b.topo.PoleTolerance:
			ch = []byte{'0'}
		case math.Abs(theta-b.topo.ThetaFisher) <= b.topo.PoleTolerance:
			ch = []byte{'1'}
		default:
			ch = []byte{'0', '1'}
		}
		choices[m.Bit] = ch
	}

	branches := expandBranches(choices)
	counts := make(map[string]int, len(branches))

	noiseShots := int(b.Noise * float64(shots))
	idealShots := shots - noiseShots

	assigned := 0
	for _, key := range branches {
		c := idealShots / len(branches)
		counts[key] += c
		assigned += c
	}
	// rounding remainder lands on the first branch
	counts[branches[0]] += idealShots - assigned

	if noiseShots > 0 {
		n := 1 << len(measures)
		per := noiseShots / n
		rem := noiseShots % n
		for i := 0; i < n; i++ {
			key := formatBitstring(i, len(measures))
			c := per
			if i < rem {
				c++
			}
			if c > 0 {
				counts[key] += c
			}
		}
	}
	return counts, nil
}

// expandBranches enumerates every bitstring consistent with the per-bit
// choices. Bit 0 is the rightmost character of each key.
func expandBranches(choices [][]byte) []string {
	n := len(choices)
	keys := []string{""}
	for bit := n - 1; bit >= 0; bit-- {
		next := make([]string, 0, len(keys)*len(choices[bit]))
		for _, prefix := range keys {
			for _, ch := range choices[bit] {
				next = append(next, prefix+string(ch))
			}
		}
		keys = next
	}
	return keys
}

func formatBitstring(v, width int) string {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte('0' + (v & 1))
		v >>= 1
	}
	return string(b)
}
