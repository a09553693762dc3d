// Package asm implements the G-ISA text assembler, the low-level front
// end that bypasses the S-Lang parser. One instruction per line,
// whitespace-delimited: `OPCODE arg1 [arg2]`. Lines starting with `#` are
// comments; blank lines are ignored.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// AssembleError reports an invalid assembly line.
type AssembleError struct {
	Line    int
	Message string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Assemble translates G-ISA assembly text into instructions. Unknown
// opcodes and missing operands fail with an AssembleError carrying the
// line number.
func Assemble(src string) ([]isa.Instruction, error) {
	var instrs []isa.Instruction

	for i, raw := range strings.Split(src, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		opcode, ok := isa.ValidOpcodes[strings.ToUpper(parts[0])]
		if !ok {
			return nil, &AssembleError{Line: lineNum, Message: fmt.Sprintf("unknown opcode %q", parts[0])}
		}

		in, err := assembleOne(opcode, parts[1:], lineNum)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, in)
	}

	return instrs, nil
}

func assembleOne(opcode isa.Opcode, args []string, line int) (isa.Instruction, error) {
	switch opcode {
	case isa.OpAlloc:
		if len(args) < 1 {
			return isa.Instruction{}, operandError(line, opcode, "name")
		}
		return isa.Alloc(args[0]), nil

	case isa.OpWrite:
		if len(args) < 2 {
			return isa.Instruction{}, operandError(line, opcode, "name and value")
		}
		if args[1] == isa.EdgeLiteral {
			return isa.WriteEdge(args[0]), nil
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return isa.Instruction{}, &AssembleError{
				Line:    line,
				Message: fmt.Sprintf("%s value must be 0, 1 or %s, got %q", opcode, isa.EdgeLiteral, args[1]),
			}
		}
		in, err := isa.Write(args[0], value)
		if err != nil {
			return isa.Instruction{}, &AssembleError{Line: line, Message: err.Error()}
		}
		return in, nil

	case isa.OpRoll:
		if len(args) < 1 {
			return isa.Instruction{}, operandError(line, opcode, "name")
		}
		return isa.Roll(args[0]), nil

	case isa.OpCNOT:
		if len(args) < 2 {
			return isa.Instruction{}, operandError(line, opcode, "control and target")
		}
		return isa.CNOT(args[0], args[1]), nil

	case isa.OpMeasure:
		if len(args) < 1 {
			return isa.Instruction{}, operandError(line, opcode, "name")
		}
		return isa.Measure(args[0]), nil
	}

	return isa.Instruction{}, &AssembleError{Line: line, Message: fmt.Sprintf("unknown opcode %q", opcode)}
}

func operandError(line int, opcode isa.Opcode, want string) *AssembleError {
	return &AssembleError{Line: line, Message: fmt.Sprintf("%s requires %s", opcode, want)}
}

// Format renders instructions back to assembly text, one per line.
// Assemble(Format(instrs)) yields the same instructions, modulo result
// bindings, which have no assembly representation.
func Format(instrs []isa.Instruction) string {
	var b strings.Builder
	for _, in := range instrs {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
