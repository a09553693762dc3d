package isa

import (
	"fmt"
	"strings"
)

// Opcode identifies a G-ISA operation.
type Opcode string

const (
	// OpAlloc reserves a pair of physical slots for a named soliton.
	OpAlloc Opcode = "S_ALLOC"

	// OpWrite snaps a soliton's theta to a pole (0, 1, or the edge
	// sentinel written by the H literal).
	OpWrite Opcode = "S_WRITE"

	// OpRoll flips a soliton between the two logical poles.
	OpRoll Opcode = "S_ROLL"

	// OpCNOT couples the data slots of two solitons.
	OpCNOT Opcode = "S_CNOT"

	// OpMeasure reads a soliton's data slot into a result bit.
	OpMeasure Opcode = "S_MEASURE"
)

// ValidOpcodes maps assembly mnemonics to opcodes.
var ValidOpcodes = map[string]Opcode{
	"S_ALLOC":   OpAlloc,
	"S_WRITE":   OpWrite,
	"S_ROLL":    OpRoll,
	"S_CNOT":    OpCNOT,
	"S_MEASURE": OpMeasure,
}

// EdgeLiteral is the superposition sentinel accepted by S_WRITE, distinct
// from the 0 and 1 pole values.
const EdgeLiteral = "H"

// Instruction is a single G-ISA instruction. Instructions are values and
// treated as immutable once created.
type Instruction struct {
	Opcode   Opcode   `json:"opcode"`
	Target   string   `json:"target"`
	Operands []string `json:"operands,omitempty"`

	// ResultVar binds a measurement to a named result (the left-hand
	// side of `x = measure(y);`). Empty for every other opcode.
	ResultVar string `json:"result_var,omitempty"`
}

// String renders the instruction in assembly form. S_CNOT prints control
// before target so the rendering assembles back to the same instruction.
func (in Instruction) String() string {
	if in.Opcode == OpCNOT && len(in.Operands) == 1 {
		return strings.Join([]string{string(in.Opcode), in.Operands[0], in.Target}, " ")
	}
	parts := append([]string{string(in.Opcode), in.Target}, in.Operands...)
	return strings.Join(parts, " ")
}

// Alloc creates an S_ALLOC instruction.
func Alloc(name string) Instruction {
	return Instruction{Opcode: OpAlloc, Target: name}
}

// Write creates an S_WRITE instruction for a pole value.
// Values other than 0 and 1 are rejected; the edge sentinel goes through
// WriteEdge.
func Write(target string, value int) (Instruction, error) {
	if value != 0 && value != 1 {
		return Instruction{}, &InvalidValueError{
			Op:      OpWrite,
			Message: fmt.Sprintf("value must be 0 or 1, got %d", value),
		}
	}
	return Instruction{Opcode: OpWrite, Target: target, Operands: []string{fmt.Sprintf("%d", value)}}, nil
}

// WriteEdge creates an S_WRITE instruction carrying the superposition
// sentinel.
func WriteEdge(target string) Instruction {
	return Instruction{Opcode: OpWrite, Target: target, Operands: []string{EdgeLiteral}}
}

// Roll creates an S_ROLL instruction.
func Roll(target string) Instruction {
	return Instruction{Opcode: OpRoll, Target: target}
}

// CNOT creates an S_CNOT instruction. The control soliton is carried as
// the sole operand; the target soliton is the instruction target.
func CNOT(control, target string) Instruction {
	return Instruction{Opcode: OpCNOT, Target: target, Operands: []string{control}}
}

// Measure creates an S_MEASURE instruction.
func Measure(target string) Instruction {
	return Instruction{Opcode: OpMeasure, Target: target}
}

// MeasureInto creates an S_MEASURE instruction bound to a result name.
func MeasureInto(target, resultVar string) Instruction {
	return Instruction{Opcode: OpMeasure, Target: target, ResultVar: resultVar}
}
