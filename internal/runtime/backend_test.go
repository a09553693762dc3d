package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CurrenlyDying/lockworks/internal/compiler"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

const bellSource = `program bell:
    soliton a = 1;
    soliton b = 0;
    entangle(a, b);
    measure(a);
    measure(b);
`

func compileBell(t *testing.T, topo isa.Topology) *compiler.Program {
	t.Helper()
	prog, err := compiler.CompileSource(bellSource, topo)
	require.NoError(t, err)
	return prog
}

func TestSimBackendDeterministic(t *testing.T) {
	topo := isa.DefaultTopology()
	prog := compileBell(t, topo)
	sim := NewSimBackend(topo)

	a, err := sim.Execute(context.Background(), prog.Sequence, 4096)
	require.NoError(t, err)
	b, err := sim.Execute(context.Background(), prog.Sequence, 4096)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimBackendIdealOutcome(t *testing.T) {
	topo := isa.DefaultTopology()
	prog := compileBell(t, topo)
	sim := NewSimBackend(topo)

	counts, err := sim.Execute(context.Background(), prog.Sequence, 4096)
	require.NoError(t, err)

	// a=1 is bit 0 (rightmost), b=0 is bit 1
	assert.Equal(t, map[string]int{"01": 4096}, counts)
}

func TestSimBackendEdgeSplitsMass(t *testing.T) {
	topo := isa.DefaultTopology()
	src := `program edge:
    soliton a = H;
    measure(a);
`
	prog, err := compiler.CompileSource(src, topo)
	require.NoError(t, err)

	counts, err := NewSimBackend(topo).Execute(context.Background(), prog.Sequence, 4096)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"0": 2048, "1": 2048}, counts)
}

func TestSimBackendNoiseSpread(t *testing.T) {
	topo := isa.DefaultTopology()
	prog := compileBell(t, topo)

	sim := NewSimBackend(topo)
	sim.Noise = 0.1

	counts, err := sim.Execute(context.Background(), prog.Sequence, 4000)
	require.NoError(t, err)

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 4000, total)
	assert.Equal(t, 3700, counts["01"]) // 3600 ideal + 100 noise
	assert.Equal(t, 100, counts["00"])
	assert.Equal(t, 100, counts["10"])
	assert.Equal(t, 100, counts["11"])
}

func TestSimBackendRejectsBadInput(t *testing.T) {
	topo := isa.DefaultTopology()
	prog := compileBell(t, topo)
	sim := NewSimBackend(topo)

	_, err := sim.Execute(context.Background(), prog.Sequence, 0)
	require.Error(t, err)

	sim.Noise = 1.5
	_, err = sim.Execute(context.Background(), prog.Sequence, 100)
	require.Error(t, err)
}

func TestSimBackendCanceledContext(t *testing.T) {
	topo := isa.DefaultTopology()
	prog := compileBell(t, topo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimBackend(topo).Execute(ctx, prog.Sequence, 100)
	require.ErrorIs(t, err, context.Canceled)
}
