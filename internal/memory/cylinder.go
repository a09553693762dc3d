package memory

import (
	"fmt"

	"github.com/CurrenlyDying/lockworks/internal/circuit"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// LinkPlacement selects where link couplings land in the lowered
// sequence relative to the hardening loops. The choice is first-class
// configuration: cold-start linking (before hardening) lets the
// topology form around the coupling, anchor linking (after) hardens the
// cells first.
type LinkPlacement int

const (
	// LinkBeforeHarden places couplings between the open layer and the
	// hardening loops (cold-start). This is the default.
	LinkBeforeHarden LinkPlacement = iota

	// LinkAfterHarden places couplings after every hardening loop.
	LinkAfterHarden
)

// pendingLink is a recorded coupling between two cells.
type pendingLink struct {
	Control int `json:"control"`
	Target  int `json:"target"`
}

// Cylinder is the addressable memory bank: n unit cells on 2n physical
// slots. A Cylinder belongs to one compilation; independent compilations
// use independent instances.
type Cylinder struct {
	topo       isa.Topology
	complexity int
	placement  LinkPlacement
	cells      []*UnitCell
	links      []pendingLink
}

// CylinderOption configures a Cylinder.
type CylinderOption func(*Cylinder)

// WithCylinderComplexity overrides the hardening iteration count.
func WithCylinderComplexity(c int) CylinderOption {
	return func(cyl *Cylinder) { cyl.complexity = c }
}

// WithLinkPlacement selects the link placement policy.
func WithLinkPlacement(p LinkPlacement) CylinderOption {
	return func(cyl *Cylinder) { cyl.placement = p }
}

// NewCylinder creates a bank of n cells at ground.
func NewCylinder(n int, topo isa.Topology, opts ...CylinderOption) (*Cylinder, error) {
	if n > topo.MaxCores {
		return nil, fmt.Errorf("cannot allocate %d cells: max is %d", n, topo.MaxCores)
	}

	cyl := &Cylinder{
		topo:       topo,
		complexity: topo.Complexity,
		placement:  LinkBeforeHarden,
	}
	for _, opt := range opts {
		opt(cyl)
	}

	cyl.cells = make([]*UnitCell, n)
	for i := range cyl.cells {
		cyl.cells[i] = &UnitCell{
			Address: i,
			Phase:   2 * i,
			Data:    2*i + 1,
			topo:    topo,
		}
	}
	return cyl, nil
}

// Size returns the number of cells.
func (cyl *Cylinder) Size() int { return len(cyl.cells) }

// PhysicalSlots returns the number of physical slots consumed.
func (cyl *Cylinder) PhysicalSlots() int { return 2 * len(cyl.cells) }

// Cell returns the cell at address.
func (cyl *Cylinder) Cell(address int) (*UnitCell, error) {
	if address < 0 || address >= len(cyl.cells) {
		return nil, &AddressError{Address: address, Size: len(cyl.cells)}
	}
	return cyl.cells[address], nil
}

// Alloc resets every cell to ground and clears pending links.
func (cyl *Cylinder) Alloc() error {
	for _, c := range cyl.cells {
		if err := c.RotateTo(0); err != nil {
			return err
		}
	}
	cyl.links = nil
	return nil
}

// Rotate sets the cell at address to target position 0 or 1.
func (cyl *Cylinder) Rotate(address, target int) error {
	c, err := cyl.Cell(address)
	if err != nil {
		return err
	}
	return c.RotateTo(target)
}

// Push writes value to address.
//
// Deprecated: Push is an alias kept for callers of the original storage
// vocabulary; use Rotate.
func (cyl *Cylinder) Push(address, value int) error {
	return cyl.Rotate(address, value)
}

// Flip toggles the cell at address.
func (cyl *Cylinder) Flip(address int) error {
	c, err := cyl.Cell(address)
	if err != nil {
		return err
	}
	return c.Flip()
}

// Read returns the position of the cell at address: 0, 1, or
// Undetermined when theta is near neither pole.
func (cyl *Cylinder) Read(address int) (int, error) {
	c, err := cyl.Cell(address)
	if err != nil {
		return 0, err
	}
	return c.Position(), nil
}

// Link records a pending coupling from control to target. Self-links
// are rejected.
func (cyl *Cylinder) Link(control, target int) error {
	if _, err := cyl.Cell(control); err != nil {
		return err
	}
	if _, err := cyl.Cell(target); err != nil {
		return err
	}
	if control == target {
		return &InvalidValueError{Message: fmt.Sprintf("cannot link cell %d to itself", control)}
	}
	cyl.links = append(cyl.links, pendingLink{Control: control, Target: target})
	return nil
}

// Links returns the pending couplings in record order.
func (cyl *Cylinder) Links() [][2]int {
	out := make([][2]int, len(cyl.links))
	for i, l := range cyl.links {
		out[i] = [2]int{l.Control, l.Target}
	}
	return out
}

// Lower produces the layered operation sequence for the cylinder state.
// measurements lists the addresses to read; nil measures every cell.
// The realized hardening count is checked against the requested
// complexity before the sequence is returned.
func (cyl *Cylinder) Lower(measurements []int) (*circuit.Sequence, error) {
	if len(cyl.cells) == 0 {
		return nil, &GeometryError{Message: "empty cylinder"}
	}

	targets := measurements
	if targets == nil {
		targets = make([]int, len(cyl.cells))
		for i := range targets {
			targets[i] = i
		}
	}
	for _, addr := range targets {
		if _, err := cyl.Cell(addr); err != nil {
			return nil, err
		}
	}

	nSlots := cyl.PhysicalSlots()
	seq := &circuit.Sequence{Slots: nSlots, Bits: len(targets)}
	seq.Ops = append(seq.Ops, circuit.Open(nSlots))

	if cyl.placement == LinkBeforeHarden {
		cyl.emitLinks(seq)
	}

	for _, c := range cyl.cells {
		theta := cyl.topo.Clamp(c.Theta)
		for i := 0; i < cyl.complexity; i++ {
			seq.Ops = append(seq.Ops,
				circuit.Couple2(c.Phase, c.Data),
				circuit.RotateX(c.Phase, theta),
				circuit.RotateZ(c.Data, theta*2),
				circuit.Barrier(c.Phase, c.Data),
			)
		}
	}

	if cyl.placement == LinkAfterHarden {
		cyl.emitLinks(seq)
	}

	seq.Ops = append(seq.Ops, circuit.Close(nSlots))

	for bit, addr := range targets {
		seq.Ops = append(seq.Ops, circuit.Measure(cyl.cells[addr].Data, bit))
	}

	if err := cyl.checkGeometry(seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// emitLinks places the pending couplings, each fenced by barriers on the
// coupled data slots.
func (cyl *Cylinder) emitLinks(seq *circuit.Sequence) {
	for _, l := range cyl.links {
		control := cyl.cells[l.Control].Data
		target := cyl.cells[l.Target].Data
		seq.Ops = append(seq.Ops,
			circuit.Barrier(control, target),
			circuit.CNOT(control, target),
			circuit.Barrier(control, target),
		)
	}
}

// checkGeometry verifies the realized hardening count: every cell must
// complete exactly complexity iterations, or the braid was interrupted.
func (cyl *Cylinder) checkGeometry(seq *circuit.Sequence) error {
	realized := seq.Count(circuit.KindCouple2)
	want := cyl.complexity * len(cyl.cells)
	if realized != want {
		return &GeometryError{Message: fmt.Sprintf(
			"realized %d hardening couplings, requested %d", realized, want)}
	}
	return nil
}

// Dump returns a debug snapshot of cell state.
func (cyl *Cylinder) Dump() []map[string]any {
	out := make([]map[string]any, len(cyl.cells))
	for i, c := range cyl.cells {
		out[i] = map[string]any{
			"address":  c.Address,
			"theta":    c.Theta,
			"position": c.Position(),
			"phase":    c.Phase,
			"data":     c.Data,
		}
	}
	return out
}
