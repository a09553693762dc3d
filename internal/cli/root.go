package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CurrenlyDying/lockworks/internal/config"
	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional topology CUE file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lockworks CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lockworks",
		Short: "LockWorks - soliton substrate toolchain",
		Long:  "Compile, simulate, and decode programs for the binary soliton substrate.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "topology config file (CUE)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewAsmCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// loadTopology resolves the topology for a command: defaults, or the
// --config file when given.
func loadTopology(opts *RootOptions) (isa.Topology, error) {
	if opts.Config == "" {
		return isa.DefaultTopology(), nil
	}
	topo, err := config.Load(opts.Config)
	if err != nil {
		return isa.Topology{}, WrapExitError(ExitCommandError, "loading topology config", err)
	}
	return topo, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
