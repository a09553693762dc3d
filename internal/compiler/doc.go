// Package compiler lowers G-ISA instructions to a layered physical
// operation sequence.
//
// Lowering is two-pass. Pass one builds soliton state: allocations bind
// slot pairs in program order, writes and rolls mutate each soliton's
// theta. Pass two emits the fixed layering: one open layer over all
// slots, the per-soliton hardening loop (complexity repetitions of
// coupling, two rotations, barrier), the cross-soliton couplings in
// program order, one close layer, and the measurements.
//
// Unless the compiler runs unsafe, every theta is clamped into the safe
// operating range immediately before its hardening loop. Topology
// warnings from the heap are advisory and surface on the Program
// artifact; rejecting them is the caller's policy.
package compiler
