package decode

import "fmt"

// Reading is the decoded logical state of an n-unit run.
type Reading struct {
	Values      []int     `json:"values"`
	Confidences []float64 `json:"confidences"`
	Confidence  float64   `json:"confidence"` // average across units
	Shots       int       `json:"shots"`
}

// Value returns the decoded value of unit i.
func (r *Reading) Value(i int) int { return r.Values[i] }

// Bitstring renders the decoded values left to right by unit index.
func (r *Reading) Bitstring() string {
	b := make([]byte, len(r.Values))
	for i, v := range r.Values {
		b[i] = byte('0' + v)
	}
	return string(b)
}

// Decode majority-votes each of n units from a shot histogram. Result
// bit i is read from position len(key)-1-i of each key; short keys are
// treated as zero-padded on the left. A tied vote decodes to 0.
func Decode(counts map[string]int, n int) (*Reading, error) {
	if n <= 0 {
		return nil, fmt.Errorf("decode: unit count must be positive, got %d", n)
	}

	total := 0
	ones := make([]int, n)
	for key, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("decode: negative count %d for %q", c, key)
		}
		total += c
		for i := 0; i < n; i++ {
			pos := len(key) - 1 - i
			if pos >= 0 && key[pos] == '1' {
				ones[i] += c
			}
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("decode: empty histogram")
	}

	r := &Reading{
		Values:      make([]int, n),
		Confidences: make([]float64, n),
		Shots:       total,
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		zeros := total - ones[i]
		if ones[i] > zeros {
			r.Values[i] = 1
			r.Confidences[i] = float64(ones[i]) / float64(total)
		} else {
			r.Values[i] = 0
			r.Confidences[i] = float64(zeros) / float64(total)
		}
		sum += r.Confidences[i]
	}
	r.Confidence = sum / float64(n)
	return r, nil
}

// Dominance returns the probability mass of the most frequent outcome,
// the outcome itself, and whether the mass falls below threshold.
func Dominance(counts map[string]int, threshold float64) (score float64, top string, marginal bool) {
	total := 0
	best := -1
	for key, c := range counts {
		total += c
		if c > best || (c == best && key < top) {
			best = c
			top = key
		}
	}
	if total == 0 {
		return 0, "", true
	}
	score = float64(best) / float64(total)
	return score, top, score < threshold
}
