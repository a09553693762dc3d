package memory

import (
	"fmt"
	"math"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// Undetermined is returned by Read when a cell's theta sits on neither
// pole within tolerance.
const Undetermined = -1

// UnitCell is a single addressable memory element: a slot pair whose
// rotational theta encodes the stored value.
type UnitCell struct {
	Address int     `json:"address"`
	Theta   float64 `json:"theta"`

	// Phase is the even-indexed slot. It holds orientation and is never
	// measured.
	Phase int `json:"phase"`

	// Data is the odd-indexed slot carrying the stored value.
	Data int `json:"data"`

	locked bool
	topo   isa.Topology
}

// Position classifies the cell: 0 at the ground pole, 1 at the excited
// pole, Undetermined anywhere in between.
func (c *UnitCell) Position() int {
	switch {
	case math.Abs(c.Theta-c.topo.ThetaRobust) <= c.topo.PoleTolerance:
		return 0
	case math.Abs(c.Theta-c.topo.ThetaFisher) <= c.topo.PoleTolerance:
		return 1
	default:
		return Undetermined
	}
}

// RotateTo rotates the cell to target position 0 or 1. Rotating a locked
// cell is an atomicity violation.
func (c *UnitCell) RotateTo(target int) error {
	if c.locked {
		return &GeometryError{Message: fmt.Sprintf("cell %d is locked mid-operation", c.Address)}
	}
	switch target {
	case 0:
		c.Theta = c.topo.ThetaRobust
	case 1:
		c.Theta = c.topo.ThetaFisher
	default:
		return &InvalidValueError{Message: fmt.Sprintf("invalid target position %d", target)}
	}
	return nil
}

// Flip toggles the cell between positions. An undetermined cell flips to
// ground.
func (c *UnitCell) Flip() error {
	if c.Position() == 0 {
		return c.RotateTo(1)
	}
	return c.RotateTo(0)
}

// Lock marks the cell as mid-operation; rotations fail until Unlock.
func (c *UnitCell) Lock() { c.locked = true }

// Unlock releases the cell.
func (c *UnitCell) Unlock() { c.locked = false }

// Locked reports whether the cell is mid-operation.
func (c *UnitCell) Locked() bool { return c.locked }
