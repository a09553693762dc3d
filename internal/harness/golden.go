package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// snapshot pins everything deterministic about a run: the lowered
// sequence and the decoded outcome. Job IDs and timestamps are left out
// on purpose.
type snapshot struct {
	ScenarioName string    `json:"scenario_name"`
	ProgramName  string    `json:"program_name"`
	Fingerprint  string    `json:"fingerprint"`
	Warnings     []string  `json:"warnings,omitempty"`
	Listing      []string  `json:"listing"`
	Values       []int     `json:"values"`
	Confidences  []float64 `json:"confidences"`
	TopState     string    `json:"top_state"`
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, topo isa.Topology) error {
	t.Helper()

	result, err := Run(context.Background(), scenario, topo)
	if err != nil {
		return err
	}

	listing := make([]string, len(result.Program.Sequence.Ops))
	for i, op := range result.Program.Sequence.Ops {
		listing[i] = op.String()
	}

	snap := snapshot{
		ScenarioName: scenario.Name,
		ProgramName:  result.Run.Name,
		Fingerprint:  result.Run.Fingerprint,
		Warnings:     result.Program.Warnings,
		Listing:      listing,
		Values:       result.Run.Reading.Values,
		Confidences:  result.Run.Reading.Confidences,
		TopState:     result.Run.Analysis.TopState,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, buf.Bytes())

	return nil
}
