// Package memory implements the cylindrical addressable view of the
// physical substrate: a linear bank of unit cells addressed by integer
// index, bypassing the language front ends entirely.
//
// Each cell is a slot pair (phase, data) with a rotational theta. Cells
// are mechanically isolated until a link gears two of them together.
// Writes go through Rotate, reads through Read (pole classification),
// and Lower produces the same layered operation sequence the instruction
// compiler emits, with one deliberate degree of freedom: whether link
// couplings are placed before or after the hardening loops
// (LinkPlacement), which materially affects downstream signal quality.
//
// The Sequencer validates temporal ordering of cylinder operations
// before they are applied: rotations are atomic, a barrier completes all
// pending rotations, and links must not touch a rotating cell.
package memory
