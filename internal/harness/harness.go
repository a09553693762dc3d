package harness

import (
	"context"
	"fmt"
	"math"

	"github.com/CurrenlyDying/lockworks/internal/compiler"
	"github.com/CurrenlyDying/lockworks/internal/isa"
	"github.com/CurrenlyDying/lockworks/internal/runtime"
)

// Result is the outcome of one scenario execution.
type Result struct {
	Scenario *Scenario
	Program  *compiler.Program
	Run      *runtime.Result

	// Failures lists every expectation that did not hold. Empty means
	// the scenario passed.
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run executes a scenario on a fresh simulator and checks its expect
// clause. Compile and execution errors are returned; expectation
// mismatches are collected in the result instead.
func Run(ctx context.Context, scenario *Scenario, topo isa.Topology) (*Result, error) {
	var opts []compiler.Option
	if scenario.Complexity > 0 {
		opts = append(opts, compiler.WithComplexity(scenario.Complexity))
	}

	prog, err := compiler.CompileSource(scenario.Source, topo, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	sim := runtime.NewSimBackend(topo)
	sim.Noise = scenario.Noise
	mgr := runtime.NewManager(topo, runtime.WithBackend(sim))

	run, err := mgr.Run(ctx, prog, scenario.Shots)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	res := &Result{Scenario: scenario, Program: prog, Run: run}
	res.check()
	return res, nil
}

func (r *Result) check() {
	exp := r.Scenario.Expect
	if exp == nil {
		return
	}
	fail := func(format string, args ...any) {
		r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	}

	if exp.Values != nil && !equalInts(exp.Values, r.Run.Reading.Values) {
		fail("decoded values %v, want %v", r.Run.Reading.Values, exp.Values)
	}
	if exp.MinConfidence > 0 {
		got := r.Run.Reading.Confidence
		if got < exp.MinConfidence && math.Abs(got-exp.MinConfidence) > 1e-9 {
			fail("confidence %.4f below %.4f", got, exp.MinConfidence)
		}
	}
	if exp.TopState != "" && r.Run.Analysis.TopState != exp.TopState {
		fail("top state %q, want %q", r.Run.Analysis.TopState, exp.TopState)
	}
	if exp.Marginal != nil && r.Run.Analysis.Marginal != *exp.Marginal {
		fail("marginal = %v, want %v", r.Run.Analysis.Marginal, *exp.Marginal)
	}
	if exp.Significant != nil && r.Run.Analysis.Significant != *exp.Significant {
		fail("significant = %v, want %v", r.Run.Analysis.Significant, *exp.Significant)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
