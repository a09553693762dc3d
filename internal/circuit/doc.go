// Package circuit defines the layered operation sequence emitted by
// lowering: the contract between the compilers and the execution backend.
//
// A Sequence is an ordered list of tagged physical operations over slot
// indices. It is built once per lowering and treated as immutable
// thereafter. The canonical encoding produces byte-stable JSON (sorted
// keys, NFC-normalized strings, shortest round-trip floats) used for
// content-addressed fingerprints and golden files.
package circuit
