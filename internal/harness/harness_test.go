package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/bell.yaml")
	require.NoError(t, err)

	assert.Equal(t, "bell", s.Name)
	assert.Equal(t, 4096, s.Shots)
	require.NotNil(t, s.Expect)
	assert.Equal(t, []int{1, 0}, s.Expect.Values)
	assert.Equal(t, "01", s.Expect.TopState)
	require.NotNil(t, s.Expect.Significant)
	assert.True(t, *s.Expect.Significant)
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: misspelled key
source: "program t:"
expects:
  values: [0]
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestLoadScenarioRequiresFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: only-name\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "bell.yaml", filepath.Base(files[0]))
}

func TestRunScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	topo := isa.DefaultTopology()
	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			res, err := Run(context.Background(), s, topo)
			require.NoError(t, err)
			assert.True(t, res.Passed(), "failures: %v", res.Failures)
		})
	}
}

func TestRunCollectsFailures(t *testing.T) {
	s := &Scenario{
		Name:        "wrong-expect",
		Description: "expectations that cannot hold",
		Source: `program w:
    soliton a = 1;
    measure(a);
`,
		Shots: 1024,
		Expect: &ExpectClause{
			Values:   []int{0},
			TopState: "0",
		},
	}

	res, err := Run(context.Background(), s, isa.DefaultTopology())
	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Len(t, res.Failures, 2)
}

func TestRunCompileErrorSurfaces(t *testing.T) {
	s := &Scenario{
		Name:        "empty",
		Description: "no units allocated",
		Source:      "program empty:\n",
	}

	_, err := Run(context.Background(), s, isa.DefaultTopology())
	require.Error(t, err)
}

func TestRunWithGolden(t *testing.T) {
	if _, err := os.Stat(filepath.Join("testdata", "golden", "bell.golden")); os.IsNotExist(err) {
		t.Skip("golden fixture missing; regenerate with -update")
	}

	s, err := LoadScenario("testdata/scenarios/bell.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s, isa.DefaultTopology()))
}
