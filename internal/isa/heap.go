package isa

import "fmt"

// Heap manages allocation of logical solitons onto physical slot pairs.
//
// Assignment is strictly sequential: the k-th allocation (0-indexed)
// receives slots (2k, 2k+1). There is no compaction and no freeing; a
// Heap belongs to exactly one compilation.
type Heap struct {
	topo     Topology
	byName   map[string]*Soliton
	order    []*Soliton
	nextSlot int
}

// NewHeap creates an empty heap using the given topology parameters.
func NewHeap(topo Topology) *Heap {
	return &Heap{
		topo:   topo,
		byName: make(map[string]*Soliton),
	}
}

// Alloc binds name to a fresh slot pair with the given initial value
// (0 or 1). Allocating an existing name fails with DuplicateNameError.
func (h *Heap) Alloc(name string, initial int) (*Soliton, error) {
	if _, ok := h.byName[name]; ok {
		return nil, &DuplicateNameError{Name: name}
	}

	s := &Soliton{
		Name:  name,
		Phase: h.nextSlot,
		Data:  h.nextSlot + 1,
		topo:  h.topo,
	}
	if err := s.Write(initial); err != nil {
		return nil, err
	}
	h.nextSlot += 2

	h.byName[name] = s
	h.order = append(h.order, s)
	return s, nil
}

// Get returns the soliton bound to name, or NotFoundError.
func (h *Heap) Get(name string) (*Soliton, error) {
	s, ok := h.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return s, nil
}

// Contains reports whether name is allocated.
func (h *Heap) Contains(name string) bool {
	_, ok := h.byName[name]
	return ok
}

// All returns the allocated solitons in allocation order.
func (h *Heap) All() []*Soliton {
	out := make([]*Soliton, len(h.order))
	copy(out, h.order)
	return out
}

// Len returns the number of allocated solitons.
func (h *Heap) Len() int { return len(h.order) }

// PhysicalSlots returns the number of physical slots consumed.
func (h *Heap) PhysicalSlots() int { return h.nextSlot }

// Validate returns advisory warnings about the topology: complexity below
// the verified minimum, or any soliton's theta outside the safe range.
// Warnings never block compilation; rejection policy belongs to the
// caller.
func (h *Heap) Validate(complexity int) []string {
	var warnings []string

	if complexity < h.topo.ComplexityMin {
		warnings = append(warnings, fmt.Sprintf(
			"complexity %d below minimum %d: geometry may break",
			complexity, h.topo.ComplexityMin))
	}

	for _, s := range h.order {
		if !h.topo.InSafeRange(s.Theta) {
			warnings = append(warnings, fmt.Sprintf(
				"soliton %q theta=%.3f outside safe range [%.3f, %.3f]",
				s.Name, s.Theta, h.topo.ThetaMin, h.topo.ThetaMax))
		}
	}

	return warnings
}
