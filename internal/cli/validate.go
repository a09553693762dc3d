package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.slang>",
		Short: "Check a program against topology limits",
		Long: `Compile a program and report advisory topology warnings.

Exit codes:
  0 - program compiles with no warnings
  1 - program compiles with warnings
  2 - program does not compile`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	prog, err := compileFile(opts, path, 0, false, formatter)
	if err != nil {
		return err
	}

	if len(prog.Warnings) > 0 {
		if formatter.Format == "json" {
			_ = formatter.Error(ErrCodeCompile, "topology warnings", prog.Warnings)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s has %d warning(s)\n", prog.Name, len(prog.Warnings))
			for _, w := range prog.Warnings {
				fmt.Fprintf(formatter.Writer, "  %s\n", w)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d topology warning(s)", len(prog.Warnings)))
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"name": prog.Name, "warnings": 0})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is within topology limits\n", prog.Name)
	return nil
}
