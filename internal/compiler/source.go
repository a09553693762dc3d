package compiler

import (
	"github.com/CurrenlyDying/lockworks/internal/asm"
	"github.com/CurrenlyDying/lockworks/internal/isa"
	"github.com/CurrenlyDying/lockworks/internal/lang"
)

func parseSource(src string) (string, []isa.Instruction, error) {
	return lang.ParseSource(src)
}

// CompileAssembly assembles G-ISA text and lowers it in one call.
// Assembly carries no program name, so the caller supplies one.
func CompileAssembly(name, src string, topo isa.Topology, opts ...Option) (*Program, error) {
	instrs, err := asm.Assemble(src)
	if err != nil {
		return nil, err
	}
	return New(topo, opts...).Compile(name, instrs)
}
