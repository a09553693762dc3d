// Package runtime executes lowered operation sequences and assembles
// run results. The only backend shipped is a deterministic simulator;
// Backend is the seam for real substrate transports.
package runtime
