package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a physical operation.
type Kind string

const (
	// KindOpen is the open-layer covering a slot range.
	KindOpen Kind = "OPEN"

	// KindCouple2 is the pairwise coupling inside one soliton's
	// hardening step.
	KindCouple2 Kind = "COUPLE2"

	// KindRotateX is a single-slot parameterized rotation on the phase
	// slot.
	KindRotateX Kind = "ROTATE_X"

	// KindRotateZ is a single-slot parameterized rotation on the data
	// slot.
	KindRotateZ Kind = "ROTATE_Z"

	// KindBarrier fences the slots it names.
	KindBarrier Kind = "BARRIER"

	// KindCNOT is the cross-unit coupling between two data slots.
	KindCNOT Kind = "CNOT"

	// KindClose is the close-layer covering a slot range.
	KindClose Kind = "CLOSE"

	// KindMeasure reads one slot into a result bit.
	KindMeasure Kind = "MEASURE"
)

// Op is one physical operation. Slots carries the slot indices the
// operation touches; Angle is meaningful for rotations only; Bit is the
// result-bit index for measurements.
type Op struct {
	Kind  Kind    `json:"kind"`
	Slots []int   `json:"slots"`
	Angle float64 `json:"angle,omitempty"`
	Bit   int     `json:"bit,omitempty"`
}

// Open covers slots [0, n) with the open layer.
func Open(n int) Op { return Op{Kind: KindOpen, Slots: slotRange(n)} }

// Close covers slots [0, n) with the close layer.
func Close(n int) Op { return Op{Kind: KindClose, Slots: slotRange(n)} }

// Couple2 couples a soliton's phase and data slots.
func Couple2(a, b int) Op { return Op{Kind: KindCouple2, Slots: []int{a, b}} }

// RotateX rotates slot by angle around X.
func RotateX(slot int, angle float64) Op {
	return Op{Kind: KindRotateX, Slots: []int{slot}, Angle: angle}
}

// RotateZ rotates slot by angle around Z.
func RotateZ(slot int, angle float64) Op {
	return Op{Kind: KindRotateZ, Slots: []int{slot}, Angle: angle}
}

// Barrier fences the given slots.
func Barrier(slots ...int) Op { return Op{Kind: KindBarrier, Slots: slots} }

// CNOT couples control onto target.
func CNOT(control, target int) Op {
	return Op{Kind: KindCNOT, Slots: []int{control, target}}
}

// Measure reads slot into result bit.
func Measure(slot, bit int) Op {
	return Op{Kind: KindMeasure, Slots: []int{slot}, Bit: bit}
}

// String renders the op for tracing and golden files.
func (o Op) String() string {
	var b strings.Builder
	b.WriteString(string(o.Kind))
	for _, s := range o.Slots {
		b.WriteString(" q")
		b.WriteString(strconv.Itoa(s))
	}
	if o.Kind == KindRotateX || o.Kind == KindRotateZ {
		fmt.Fprintf(&b, " %s", strconv.FormatFloat(o.Angle, 'g', -1, 64))
	}
	if o.Kind == KindMeasure {
		fmt.Fprintf(&b, " -> c%d", o.Bit)
	}
	return b.String()
}

// Sequence is an ordered operation list. Built once per lowering,
// immutable afterwards by convention.
type Sequence struct {
	Slots int  `json:"slots"` // physical slot count
	Bits  int  `json:"bits"`  // result bit count
	Ops   []Op `json:"ops"`
}

// Count returns the number of operations with the given kind.
func (s *Sequence) Count(kind Kind) int {
	n := 0
	for _, op := range s.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Listing renders the sequence one op per line.
func (s *Sequence) Listing() string {
	var b strings.Builder
	for _, op := range s.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func slotRange(n int) []int {
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	return slots
}
