package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CurrenlyDying/lockworks/internal/circuit"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

func TestNewCylinderSlotPairs(t *testing.T) {
	cyl, err := NewCylinder(3, isa.DefaultTopology())
	require.NoError(t, err)

	assert.Equal(t, 3, cyl.Size())
	assert.Equal(t, 6, cyl.PhysicalSlots())

	for i := 0; i < 3; i++ {
		c, err := cyl.Cell(i)
		require.NoError(t, err)
		assert.Equal(t, 2*i, c.Phase)
		assert.Equal(t, 2*i+1, c.Data)
		assert.Equal(t, 0, c.Position())
	}
}

func TestNewCylinderMaxCores(t *testing.T) {
	topo := isa.DefaultTopology()
	_, err := NewCylinder(topo.MaxCores+1, topo)
	require.Error(t, err)
}

func TestRotateAndRead(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	require.NoError(t, cyl.Rotate(0, 1))

	v, err := cyl.Read(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = cyl.Read(1)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestRotateOutOfRange(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	err = cyl.Rotate(5, 0)
	require.Error(t, err)
	assert.True(t, IsAddressError(err))

	err = cyl.Rotate(-1, 0)
	assert.True(t, IsAddressError(err))
}

func TestRotateInvalidTarget(t *testing.T) {
	cyl, err := NewCylinder(1, isa.DefaultTopology())
	require.NoError(t, err)

	err = cyl.Rotate(0, 2)
	require.Error(t, err)
	assert.False(t, IsGeometryError(err))
}

func TestRotateLockedCell(t *testing.T) {
	cyl, err := NewCylinder(1, isa.DefaultTopology())
	require.NoError(t, err)

	c, err := cyl.Cell(0)
	require.NoError(t, err)
	c.Lock()

	err = cyl.Rotate(0, 1)
	require.Error(t, err)
	assert.True(t, IsGeometryError(err))

	c.Unlock()
	require.NoError(t, cyl.Rotate(0, 1))
}

func TestPushAlias(t *testing.T) {
	cyl, err := NewCylinder(1, isa.DefaultTopology())
	require.NoError(t, err)

	require.NoError(t, cyl.Push(0, 1))
	v, err := cyl.Read(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFlip(t *testing.T) {
	cyl, err := NewCylinder(1, isa.DefaultTopology())
	require.NoError(t, err)

	require.NoError(t, cyl.Flip(0))
	v, _ := cyl.Read(0)
	assert.Equal(t, 1, v)

	require.NoError(t, cyl.Flip(0))
	v, _ = cyl.Read(0)
	assert.Equal(t, 0, v)
}

func TestLinkSelfRejected(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	err = cyl.Link(1, 1)
	require.Error(t, err)
	assert.Empty(t, cyl.Links())
}

func TestLinkRecordsPending(t *testing.T) {
	cyl, err := NewCylinder(3, isa.DefaultTopology())
	require.NoError(t, err)

	require.NoError(t, cyl.Link(0, 1))
	require.NoError(t, cyl.Link(1, 2))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, cyl.Links())
}

func TestAllocResets(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	require.NoError(t, cyl.Rotate(0, 1))
	require.NoError(t, cyl.Link(0, 1))

	require.NoError(t, cyl.Alloc())

	v, _ := cyl.Read(0)
	assert.Equal(t, 0, v)
	assert.Empty(t, cyl.Links())
}

func TestLowerLayering(t *testing.T) {
	topo := isa.DefaultTopology()
	cyl, err := NewCylinder(2, topo)
	require.NoError(t, err)
	require.NoError(t, cyl.Rotate(0, 1))
	require.NoError(t, cyl.Link(0, 1))

	seq, err := cyl.Lower(nil)
	require.NoError(t, err)

	assert.Equal(t, 4, seq.Slots)
	assert.Equal(t, 2, seq.Bits)
	assert.Equal(t, circuit.KindOpen, seq.Ops[0].Kind)
	assert.Equal(t, 2*topo.Complexity, seq.Count(circuit.KindCouple2))
	assert.Equal(t, 1, seq.Count(circuit.KindCNOT))
	assert.Equal(t, 2, seq.Count(circuit.KindMeasure))

	// close precedes every measure, measures come last
	n := len(seq.Ops)
	assert.Equal(t, circuit.KindClose, seq.Ops[n-3].Kind)
	assert.Equal(t, circuit.KindMeasure, seq.Ops[n-2].Kind)
	assert.Equal(t, circuit.KindMeasure, seq.Ops[n-1].Kind)
	assert.Equal(t, []int{1}, seq.Ops[n-2].Slots)
	assert.Equal(t, []int{3}, seq.Ops[n-1].Slots)
}

func TestLowerLinkPlacement(t *testing.T) {
	firstCNOT := func(seq *circuit.Sequence) int {
		for i, op := range seq.Ops {
			if op.Kind == circuit.KindCNOT {
				return i
			}
		}
		return -1
	}
	firstCouple := func(seq *circuit.Sequence) int {
		for i, op := range seq.Ops {
			if op.Kind == circuit.KindCouple2 {
				return i
			}
		}
		return -1
	}

	topo := isa.DefaultTopology()

	cold, err := NewCylinder(2, topo)
	require.NoError(t, err)
	require.NoError(t, cold.Link(0, 1))
	seq, err := cold.Lower(nil)
	require.NoError(t, err)
	assert.Less(t, firstCNOT(seq), firstCouple(seq))

	anchor, err := NewCylinder(2, topo, WithLinkPlacement(LinkAfterHarden))
	require.NoError(t, err)
	require.NoError(t, anchor.Link(0, 1))
	seq, err = anchor.Lower(nil)
	require.NoError(t, err)
	assert.Greater(t, firstCNOT(seq), firstCouple(seq))
}

func TestLowerMeasurementSubset(t *testing.T) {
	cyl, err := NewCylinder(3, isa.DefaultTopology())
	require.NoError(t, err)

	seq, err := cyl.Lower([]int{2})
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Bits)

	last := seq.Ops[len(seq.Ops)-1]
	assert.Equal(t, circuit.KindMeasure, last.Kind)
	assert.Equal(t, []int{5}, last.Slots)
	assert.Equal(t, 0, last.Bit)
}

func TestLowerEmptyMeasurementList(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	// Empty but non-nil: no readings requested, unlike nil which
	// measures every cell.
	seq, err := cyl.Lower([]int{})
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Bits)
	assert.Equal(t, 0, seq.Count(circuit.KindMeasure))
}

func TestLowerBadMeasurementAddress(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	_, err = cyl.Lower([]int{7})
	require.Error(t, err)
	assert.True(t, IsAddressError(err))
}

func TestLowerComplexityOverride(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology(), WithCylinderComplexity(3))
	require.NoError(t, err)

	seq, err := cyl.Lower(nil)
	require.NoError(t, err)
	assert.Equal(t, 6, seq.Count(circuit.KindCouple2))
}
