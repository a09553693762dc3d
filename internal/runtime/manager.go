package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CurrenlyDying/lockworks/internal/compiler"
	"github.com/CurrenlyDying/lockworks/internal/decode"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// Result is the full record of one run.
type Result struct {
	JobID       string           `json:"job_id"`
	Seq         int64            `json:"seq"`
	Name        string           `json:"name"`
	Fingerprint string           `json:"fingerprint"`
	Shots       int              `json:"shots"`
	Counts      map[string]int   `json:"counts"`
	Reading     *decode.Reading  `json:"reading"`
	Analysis    *decode.Analysis `json:"analysis"`
	Warnings    []string         `json:"warnings,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Sink receives finished results, typically a run-log store.
type Sink interface {
	WriteRun(ctx context.Context, res *Result) error
}

// Manager drives the compile-execute-decode pipeline.
type Manager struct {
	topo    isa.Topology
	backend Backend
	clock   *Clock
	sink    Sink
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBackend overrides the default simulator backend.
func WithBackend(b Backend) ManagerOption {
	return func(m *Manager) { m.backend = b }
}

// WithSink attaches a result sink; every successful run is persisted.
func WithSink(s Sink) ManagerOption {
	return func(m *Manager) { m.sink = s }
}

// WithClock resumes sequence numbering from an existing clock.
func WithClock(c *Clock) ManagerOption {
	return func(m *Manager) { m.clock = c }
}

// NewManager creates a Manager with a deterministic simulator backend.
func NewManager(topo isa.Topology, opts ...ManagerOption) *Manager {
	m := &Manager{
		topo:    topo,
		backend: NewSimBackend(topo),
		clock:   NewClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes a compiled program for shots repetitions, decodes the
// histogram, and computes the distribution statistics. The result is
// stamped with a UUIDv7 job id and a monotonic sequence number, and
// written to the sink when one is attached.
func (m *Manager) Run(ctx context.Context, prog *compiler.Program, shots int) (*Result, error) {
	if shots <= 0 {
		shots = m.topo.Shots
	}

	counts, err := m.backend.Execute(ctx, prog.Sequence, shots)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", prog.Name, err)
	}

	width := prog.Sequence.Bits
	reading, err := decode.Decode(counts, width)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", prog.Name, err)
	}
	analysis, err := decode.Analyze(counts, width, m.topo)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", prog.Name, err)
	}

	res := &Result{
		JobID:       uuid.Must(uuid.NewV7()).String(),
		Seq:         m.clock.Next(),
		Name:        prog.Name,
		Fingerprint: prog.Fingerprint,
		Shots:       shots,
		Counts:      counts,
		Reading:     reading,
		Analysis:    analysis,
		Warnings:    prog.Warnings,
		CreatedAt:   time.Now().UTC(),
	}

	if m.sink != nil {
		if err := m.sink.WriteRun(ctx, res); err != nil {
			return nil, fmt.Errorf("persist run %s: %w", res.JobID, err)
		}
	}
	return res, nil
}

// RunSource compiles src and runs it.
func (m *Manager) RunSource(ctx context.Context, src string, shots int, opts ...compiler.Option) (*Result, error) {
	prog, err := compiler.CompileSource(src, m.topo, opts...)
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, prog, shots)
}
