package lang

import (
	"fmt"
	"strings"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// Format renders instructions back to S-Lang source. S_ALLOC has no surface
// form of its own; the declaration line is emitted by the soliton's S_WRITE.
// Measurements without a bound result name render as `result = measure(x);`,
// so ParseSource(Format(name, instrs)) reproduces the instructions modulo
// that default binding.
func Format(name string, instrs []isa.Instruction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program %s:\n", name)

	for _, in := range instrs {
		switch in.Opcode {
		case isa.OpWrite:
			if len(in.Operands) == 0 {
				continue
			}
			fmt.Fprintf(&b, "    soliton %s = %s;\n", in.Target, in.Operands[0])

		case isa.OpRoll:
			fmt.Fprintf(&b, "    %s.roll();\n", in.Target)

		case isa.OpCNOT:
			if len(in.Operands) == 0 {
				continue
			}
			fmt.Fprintf(&b, "    entangle(%s, %s);\n", in.Operands[0], in.Target)

		case isa.OpMeasure:
			result := in.ResultVar
			if result == "" {
				result = "result"
			}
			fmt.Fprintf(&b, "    %s = measure(%s);\n", result, in.Target)
		}
	}

	return b.String()
}
