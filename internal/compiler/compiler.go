package compiler

import (
	"fmt"
	"strconv"

	"github.com/CurrenlyDying/lockworks/internal/circuit"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// EmptyProgramError reports lowering with no allocated solitons.
type EmptyProgramError struct{}

func (e *EmptyProgramError) Error() string {
	return "no solitons allocated"
}

// Program is the compiled artifact: the operation sequence plus the
// logical-to-physical map and the advisory warnings gathered during
// lowering. Programs are immutable once returned.
type Program struct {
	Name        string
	Sequence    *circuit.Sequence
	Solitons    []*isa.Soliton // allocation order
	Warnings    []string
	Fingerprint string
}

// Compiler lowers instructions against one private Heap. A Compiler
// serves exactly one compilation; concurrent compilations use
// independent instances.
type Compiler struct {
	topo       isa.Topology
	complexity int
	unsafe     bool
	heap       *isa.Heap
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithComplexity overrides the topology's hardening iteration count.
func WithComplexity(c int) Option {
	return func(cc *Compiler) { cc.complexity = c }
}

// Unsafe disables theta clamping before emission.
func Unsafe() Option {
	return func(cc *Compiler) { cc.unsafe = true }
}

// New creates a Compiler for one compilation.
func New(topo isa.Topology, opts ...Option) *Compiler {
	c := &Compiler{
		topo:       topo,
		complexity: topo.Complexity,
		heap:       isa.NewHeap(topo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Heap exposes the allocator state after Compile, for callers that need
// the logical-to-physical map.
func (c *Compiler) Heap() *isa.Heap { return c.heap }

// Compile lowers instructions into a named Program.
func (c *Compiler) Compile(name string, instrs []isa.Instruction) (*Program, error) {
	if err := c.buildState(instrs); err != nil {
		return nil, err
	}

	if c.heap.Len() == 0 {
		return nil, &EmptyProgramError{}
	}

	warnings := c.heap.Validate(c.complexity)

	seq, err := c.emit(instrs)
	if err != nil {
		return nil, err
	}

	fp, err := circuit.Fingerprint(name, seq)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	return &Program{
		Name:        name,
		Sequence:    seq,
		Solitons:    c.heap.All(),
		Warnings:    warnings,
		Fingerprint: fp,
	}, nil
}

// buildState is pass one: allocate every soliton, then apply S_WRITE and
// S_ROLL in program order, mutating each soliton's theta. Allocations are
// hoisted so assembly may write a soliton before its S_ALLOC line.
func (c *Compiler) buildState(instrs []isa.Instruction) error {
	for _, in := range instrs {
		if in.Opcode != isa.OpAlloc {
			continue
		}
		if _, err := c.heap.Alloc(in.Target, 0); err != nil {
			return err
		}
	}

	for _, in := range instrs {
		switch in.Opcode {
		case isa.OpWrite:
			s, err := c.heap.Get(in.Target)
			if err != nil {
				return err
			}
			if len(in.Operands) == 0 {
				return &isa.InvalidValueError{Op: isa.OpWrite, Message: "missing value operand"}
			}
			if in.Operands[0] == isa.EdgeLiteral {
				s.WriteEdge()
				continue
			}
			value, err := strconv.Atoi(in.Operands[0])
			if err != nil {
				return &isa.InvalidValueError{
					Op:      isa.OpWrite,
					Message: fmt.Sprintf("bad value %q", in.Operands[0]),
				}
			}
			if err := s.Write(value); err != nil {
				return err
			}

		case isa.OpRoll:
			s, err := c.heap.Get(in.Target)
			if err != nil {
				return err
			}
			s.Roll()
		}
	}
	return nil
}

// emit is pass two: produce the layered sequence in fixed order.
func (c *Compiler) emit(instrs []isa.Instruction) (*circuit.Sequence, error) {
	solitons := c.heap.All()
	nSlots := c.heap.PhysicalSlots()

	seq := &circuit.Sequence{Slots: nSlots}
	seq.Ops = append(seq.Ops, circuit.Open(nSlots))

	// Hardening loop, allocation order.
	for _, s := range solitons {
		theta := s.Theta
		if !c.unsafe {
			theta = c.topo.Clamp(theta)
		}
		for i := 0; i < c.complexity; i++ {
			seq.Ops = append(seq.Ops,
				circuit.Couple2(s.Phase, s.Data),
				circuit.RotateX(s.Phase, theta),
				circuit.RotateZ(s.Data, theta*2),
				circuit.Barrier(s.Phase, s.Data),
			)
		}
	}

	// Cross-soliton couplings, program order, data slot to data slot.
	for _, in := range instrs {
		if in.Opcode != isa.OpCNOT {
			continue
		}
		if len(in.Operands) == 0 {
			return nil, &isa.InvalidValueError{Op: isa.OpCNOT, Message: "missing control operand"}
		}
		control, err := c.heap.Get(in.Operands[0])
		if err != nil {
			return nil, err
		}
		target, err := c.heap.Get(in.Target)
		if err != nil {
			return nil, err
		}
		seq.Ops = append(seq.Ops, circuit.CNOT(control.Data, target.Data))
	}

	seq.Ops = append(seq.Ops, circuit.Close(nSlots))

	// Measurements: explicit ones in program order, otherwise every
	// soliton in allocation order. Result bits are sequential.
	bit := 0
	for _, in := range instrs {
		if in.Opcode != isa.OpMeasure {
			continue
		}
		s, err := c.heap.Get(in.Target)
		if err != nil {
			return nil, err
		}
		seq.Ops = append(seq.Ops, circuit.Measure(s.Data, bit))
		bit++
	}
	if bit == 0 {
		for _, s := range solitons {
			seq.Ops = append(seq.Ops, circuit.Measure(s.Data, bit))
			bit++
		}
	}
	seq.Bits = bit

	return seq, nil
}

// CompileSource parses S-Lang source and lowers it in one call.
func CompileSource(src string, topo isa.Topology, opts ...Option) (*Program, error) {
	name, instrs, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	return New(topo, opts...).Compile(name, instrs)
}
