package memory

import (
	"fmt"
	"sort"
)

// SeqOpKind tags a queued sequencer operation.
type SeqOpKind string

const (
	SeqAlloc   SeqOpKind = "alloc"
	SeqRotate  SeqOpKind = "rotate"
	SeqFlip    SeqOpKind = "flip"
	SeqLink    SeqOpKind = "link"
	SeqBarrier SeqOpKind = "barrier"
	SeqRead    SeqOpKind = "read"
)

// SeqOp is one queued operation. Address and Target are meaningful per
// kind: rotate uses both, link uses Address (control) and Target, read
// and flip use Address only.
type SeqOp struct {
	Kind    SeqOpKind `json:"kind"`
	Address int       `json:"address,omitempty"`
	Target  int       `json:"target,omitempty"`
}

func (op SeqOp) String() string {
	switch op.Kind {
	case SeqRotate:
		return fmt.Sprintf("rotate(%d,%d)", op.Address, op.Target)
	case SeqLink:
		return fmt.Sprintf("link(%d,%d)", op.Address, op.Target)
	case SeqFlip:
		return fmt.Sprintf("flip(%d)", op.Address)
	case SeqRead:
		return fmt.Sprintf("read(%d)", op.Address)
	default:
		return string(op.Kind)
	}
}

// Sequencer queues memory operations for atomicity validation before
// they touch a cylinder. A rotation leaves its address in the rotating
// set until a barrier settles it; touching a rotating address again
// before the barrier shatters the geometry.
type Sequencer struct {
	ops []SeqOp
}

// NewSequencer returns an empty queue.
func NewSequencer() *Sequencer { return &Sequencer{} }

// AllocOp queues a bank reset.
func (s *Sequencer) AllocOp() *Sequencer {
	s.ops = append(s.ops, SeqOp{Kind: SeqAlloc})
	return s
}

// Rotate queues a rotation of address to target.
func (s *Sequencer) Rotate(address, target int) *Sequencer {
	s.ops = append(s.ops, SeqOp{Kind: SeqRotate, Address: address, Target: target})
	return s
}

// Flip queues a toggle of address.
func (s *Sequencer) Flip(address int) *Sequencer {
	s.ops = append(s.ops, SeqOp{Kind: SeqFlip, Address: address})
	return s
}

// Link queues a coupling from control to target.
func (s *Sequencer) Link(control, target int) *Sequencer {
	s.ops = append(s.ops, SeqOp{Kind: SeqLink, Address: control, Target: target})
	return s
}

// Barrier queues a settling fence.
func (s *Sequencer) Barrier() *Sequencer {
	s.ops = append(s.ops, SeqOp{Kind: SeqBarrier})
	return s
}

// Read queues a read of address.
func (s *Sequencer) Read(address int) *Sequencer {
	s.ops = append(s.ops, SeqOp{Kind: SeqRead, Address: address})
	return s
}

// Ops returns the queued operations in order.
func (s *Sequencer) Ops() []SeqOp { return append([]SeqOp(nil), s.ops...) }

// Len returns the queue length.
func (s *Sequencer) Len() int { return len(s.ops) }

// Validate walks the queue tracking the rotating set. A rotate or flip
// on an address already rotating, or a link touching one, is a geometry
// fault. Barriers and allocs settle everything.
func (s *Sequencer) Validate() error {
	rotating := make(map[int]bool)
	for i, op := range s.ops {
		switch op.Kind {
		case SeqRotate, SeqFlip:
			if rotating[op.Address] {
				return &GeometryError{Message: fmt.Sprintf(
					"op %d: address %d already rotating, barrier required", i, op.Address)}
			}
			rotating[op.Address] = true
		case SeqLink:
			if rotating[op.Address] || rotating[op.Target] {
				return &GeometryError{Message: fmt.Sprintf(
					"op %d: link (%d,%d) touches a rotating address", i, op.Address, op.Target)}
			}
		case SeqBarrier, SeqAlloc:
			rotating = make(map[int]bool)
		case SeqRead:
			// reads see the settled position, never the transit
		}
	}
	return nil
}

// Apply validates the queue and replays it onto cyl. Read results are
// returned in queue order.
func (s *Sequencer) Apply(cyl *Cylinder) ([]int, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var reads []int
	for _, op := range s.ops {
		switch op.Kind {
		case SeqAlloc:
			if err := cyl.Alloc(); err != nil {
				return nil, err
			}
		case SeqRotate:
			if err := cyl.Rotate(op.Address, op.Target); err != nil {
				return nil, err
			}
		case SeqFlip:
			if err := cyl.Flip(op.Address); err != nil {
				return nil, err
			}
		case SeqLink:
			if err := cyl.Link(op.Address, op.Target); err != nil {
				return nil, err
			}
		case SeqBarrier:
			// settling fence, no cylinder effect
		case SeqRead:
			v, err := cyl.Read(op.Address)
			if err != nil {
				return nil, err
			}
			reads = append(reads, v)
		}
	}
	return reads, nil
}

// ReadAddresses returns the addresses of queued reads in order.
func (s *Sequencer) ReadAddresses() []int {
	var addrs []int
	for _, op := range s.ops {
		if op.Kind == SeqRead {
			addrs = append(addrs, op.Address)
		}
	}
	return addrs
}

// QuickSequence builds a validated queue from a write map and a link
// list: alloc, rotate each written address (barrier after each), link
// each pair, then read every written address in ascending order.
func QuickSequence(writes map[int]int, links [][2]int) *Sequencer {
	s := NewSequencer().AllocOp()
	addrs := sortedKeys(writes)
	for _, a := range addrs {
		s.Rotate(a, writes[a]).Barrier()
	}
	for _, l := range links {
		s.Link(l[0], l[1])
	}
	s.Barrier()
	for _, a := range addrs {
		s.Read(a)
	}
	return s
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
