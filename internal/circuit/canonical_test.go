package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSequence() *Sequence {
	return &Sequence{
		Slots: 2,
		Bits:  1,
		Ops: []Op{
			Open(2),
			Couple2(0, 1),
			RotateX(0, 0.1),
			RotateZ(1, 0.2),
			Barrier(0, 1),
			Close(2),
			Measure(1, 0),
		},
	}
}

func TestMarshalCanonicalStable(t *testing.T) {
	seq := sampleSequence()

	a, err := MarshalCanonical("Demo", seq)
	require.NoError(t, err)
	b, err := MarshalCanonical("Demo", seq)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Contains(t, string(a), `"name":"Demo"`)
	assert.Contains(t, string(a), `"kind":"ROTATE_X"`)
	assert.Contains(t, string(a), `"angle":0.1`)
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	seq := &Sequence{Slots: 0, Bits: 0}
	data, err := MarshalCanonical("a<b&c>", seq)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a<b&c>"`)
}

func TestFingerprintDiscriminates(t *testing.T) {
	seq := sampleSequence()

	base, err := Fingerprint("Demo", seq)
	require.NoError(t, err)
	require.Len(t, base, 64)

	renamed, err := Fingerprint("Other", seq)
	require.NoError(t, err)
	assert.NotEqual(t, base, renamed)

	mutated := sampleSequence()
	mutated.Ops[2].Angle = 0.196
	changed, err := Fingerprint("Demo", mutated)
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "OPEN q0 q1", Open(2).String())
	assert.Equal(t, "COUPLE2 q0 q1", Couple2(0, 1).String())
	assert.Equal(t, "ROTATE_X q0 0.196", RotateX(0, 0.196).String())
	assert.Equal(t, "ROTATE_Z q1 0.392", RotateZ(1, 0.392).String())
	assert.Equal(t, "CNOT q1 q3", CNOT(1, 3).String())
	assert.Equal(t, "MEASURE q1 -> c0", Measure(1, 0).String())
}

func TestSequenceCount(t *testing.T) {
	seq := sampleSequence()
	assert.Equal(t, 1, seq.Count(KindOpen))
	assert.Equal(t, 1, seq.Count(KindMeasure))
	assert.Equal(t, 0, seq.Count(KindCNOT))
}
