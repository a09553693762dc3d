// Package isa defines the G-ISA instruction set for the LockWorks
// topological substrate.
//
// Each logical soliton is backed by a fixed pair of physical slots: a
// phase slot (even index) that holds orientation and is never measured,
// and a data slot (odd index) that carries the value. The continuous
// theta parameter encodes the logical state; the named poles (robust,
// fisher, edge, max-info) are configured through Topology.
//
// The package also provides the Heap allocator (sequential, non-reclaiming
// slot-pair assignment), Gray-code transition helpers, and the typed
// errors shared by the front ends.
package isa
