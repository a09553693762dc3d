package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CurrenlyDying/lockworks/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
}

// ScenarioResult holds the result of one scenario execution.
type ScenarioResult struct {
	Name     string   `json:"name"`
	Pass     bool     `json:"pass"`
	Failures []string `json:"failures,omitempty"`
}

// TestResult holds the overall harness run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario.yaml|dir>",
		Short: "Run harness scenarios",
		Long: `Run one scenario file, or every scenario under a directory,
against the deterministic simulator.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (bad paths, malformed scenarios)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}
	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	topo, err := loadTopology(opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenario path not found: %s", path), nil)
		return WrapExitError(ExitCommandError, "scenario path", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = harness.FindScenarios(path)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "scanning scenarios", err)
		}
		if len(files) == 0 {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no scenario files under %s", path), nil)
			return NewExitError(ExitCommandError, "no scenarios found")
		}
	}

	result := &TestResult{}
	for _, file := range files {
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "loading "+file, err)
		}

		formatter.VerboseLog("running scenario %s", scenario.Name)
		res, err := harness.Run(cmd.Context(), scenario, topo)
		if err != nil {
			_ = formatter.Error(ErrCodeCompile, err.Error(), nil)
			return WrapExitError(ExitCommandError, "running "+scenario.Name, err)
		}

		sr := ScenarioResult{
			Name:     scenario.Name,
			Pass:     res.Passed(),
			Failures: res.Failures,
		}
		result.Scenarios = append(result.Scenarios, sr)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	return outputTestResult(formatter, result)
}

func outputTestResult(formatter *OutputFormatter, result *TestResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, sr := range result.Scenarios {
			if sr.Pass {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", sr.Name)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✗ %s\n", sr.Name)
			for _, f := range sr.Failures {
				fmt.Fprintf(formatter.Writer, "    %s\n", f)
			}
		}
		fmt.Fprintf(formatter.Writer, "\n%d/%d scenario(s) passed\n", result.Passed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
