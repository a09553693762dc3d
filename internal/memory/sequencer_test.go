package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

func TestValidateDoubleRotateWithoutBarrier(t *testing.T) {
	s := NewSequencer().Rotate(0, 1).Rotate(0, 0)

	err := s.Validate()
	require.Error(t, err)
	assert.True(t, IsGeometryError(err))
}

func TestValidateBarrierSettles(t *testing.T) {
	s := NewSequencer().Rotate(0, 1).Barrier().Rotate(0, 0)
	assert.NoError(t, s.Validate())
}

func TestValidateDistinctAddresses(t *testing.T) {
	s := NewSequencer().Rotate(0, 1).Rotate(1, 1)
	assert.NoError(t, s.Validate())
}

func TestValidateLinkTouchesRotating(t *testing.T) {
	s := NewSequencer().Rotate(0, 1).Link(0, 1)
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, IsGeometryError(err))

	s = NewSequencer().Rotate(1, 1).Link(0, 1)
	assert.Error(t, s.Validate())

	s = NewSequencer().Rotate(0, 1).Barrier().Link(0, 1)
	assert.NoError(t, s.Validate())
}

func TestValidateAllocSettles(t *testing.T) {
	s := NewSequencer().Rotate(0, 1).AllocOp().Rotate(0, 0)
	assert.NoError(t, s.Validate())
}

func TestValidateFlipCountsAsRotation(t *testing.T) {
	s := NewSequencer().Flip(0).Flip(0)
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, IsGeometryError(err))
}

func TestApplyReplaysOntoCylinder(t *testing.T) {
	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	s := NewSequencer().
		AllocOp().
		Rotate(0, 1).Barrier().
		Link(0, 1).Barrier().
		Read(0).Read(1)

	reads, err := s.Apply(cyl)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, reads)
	assert.Equal(t, [][2]int{{0, 1}}, cyl.Links())
}

func TestApplyRejectsInvalidQueue(t *testing.T) {
	cyl, err := NewCylinder(1, isa.DefaultTopology())
	require.NoError(t, err)

	s := NewSequencer().Rotate(0, 1).Rotate(0, 0)
	_, err = s.Apply(cyl)
	require.Error(t, err)
	assert.True(t, IsGeometryError(err))

	// the invalid queue never touched the bank
	v, _ := cyl.Read(0)
	assert.Equal(t, 0, v)
}

func TestReadAddresses(t *testing.T) {
	s := NewSequencer().Read(2).Rotate(0, 1).Read(0)
	assert.Equal(t, []int{2, 0}, s.ReadAddresses())
}

func TestQuickSequence(t *testing.T) {
	s := QuickSequence(map[int]int{1: 1, 0: 0}, [][2]int{{0, 1}})
	require.NoError(t, s.Validate())
	assert.Equal(t, []int{0, 1}, s.ReadAddresses())

	cyl, err := NewCylinder(2, isa.DefaultTopology())
	require.NoError(t, err)

	reads, err := s.Apply(cyl)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, reads)
}

func TestSeqOpString(t *testing.T) {
	assert.Equal(t, "rotate(0,1)", SeqOp{Kind: SeqRotate, Address: 0, Target: 1}.String())
	assert.Equal(t, "link(1,2)", SeqOp{Kind: SeqLink, Address: 1, Target: 2}.String())
	assert.Equal(t, "barrier", SeqOp{Kind: SeqBarrier}.String())
}
