package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

const bellAssembly = `# Bell pair
S_ALLOC alpha
S_WRITE alpha H

S_ALLOC beta
S_WRITE beta 0
S_CNOT alpha beta
S_MEASURE alpha
S_MEASURE beta
`

func TestAssembleBell(t *testing.T) {
	instrs, err := Assemble(bellAssembly)
	require.NoError(t, err)
	require.Len(t, instrs, 7)

	assert.Equal(t, isa.Alloc("alpha"), instrs[0])
	assert.Equal(t, isa.WriteEdge("alpha"), instrs[1])
	assert.Equal(t, isa.CNOT("alpha", "beta"), instrs[4])
	assert.Equal(t, isa.Measure("beta"), instrs[6])
}

func TestAssembleLowercaseOpcode(t *testing.T) {
	instrs, err := Assemble("s_alloc q\ns_roll q\n")
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, isa.OpRoll, instrs[1].Opcode)
}

func TestAssembleUnknownOpcode(t *testing.T) {
	_, err := Assemble("S_ALLOC q\nS_EXPLODE q\n")
	require.Error(t, err)

	var ae *AssembleError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Line)
	assert.Contains(t, ae.Message, "S_EXPLODE")
}

func TestAssembleMissingOperands(t *testing.T) {
	cases := []struct {
		src  string
		line int
	}{
		{"S_ALLOC", 1},
		{"S_ALLOC q\nS_WRITE q", 2},
		{"S_CNOT a", 1},
		{"\n\nS_MEASURE", 3},
		{"S_ROLL", 1},
	}
	for _, tc := range cases {
		_, err := Assemble(tc.src)
		require.Error(t, err, "source %q", tc.src)

		var ae *AssembleError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, tc.line, ae.Line, "source %q", tc.src)
		assert.Contains(t, ae.Message, "requires")
	}
}

func TestAssembleBadWriteValue(t *testing.T) {
	_, err := Assemble("S_WRITE q 2")
	require.Error(t, err)

	_, err = Assemble("S_WRITE q X")
	require.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	instrs, err := Assemble(bellAssembly)
	require.NoError(t, err)

	again, err := Assemble(Format(instrs))
	require.NoError(t, err)
	assert.Equal(t, instrs, again)
}
