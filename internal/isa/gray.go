package isa

// ToGray converts an integer to its Gray code.
func ToGray(n int) int {
	return n ^ (n >> 1)
}

// FromGray converts a Gray code back to the integer it encodes.
func FromGray(gray int) int {
	n := gray
	for mask := gray >> 1; mask != 0; mask >>= 1 {
		n ^= mask
	}
	return n
}

// GrayTransition returns the safe transition path between two levels
// along GraySequence, inclusive of both endpoints. Each step along the
// path changes exactly one bit. When the source sits after the target in
// the sequence the path wraps around.
func GrayTransition(from, to int) []int {
	if from == to {
		return []int{from}
	}

	fromIdx, toIdx := grayIndex(from), grayIndex(to)
	if fromIdx <= toIdx {
		return append([]int(nil), GraySequence[fromIdx:toIdx+1]...)
	}
	path := append([]int(nil), GraySequence[fromIdx:]...)
	return append(path, GraySequence[:toIdx+1]...)
}

func grayIndex(level int) int {
	for i, l := range GraySequence {
		if l == level {
			return i
		}
	}
	return 0
}
