package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CurrenlyDying/lockworks/internal/compiler"
	"github.com/CurrenlyDying/lockworks/internal/lang"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Complexity int
	Unsafe     bool
}

// SequenceOutput is the JSON payload for compiled programs.
type SequenceOutput struct {
	Name        string   `json:"name"`
	Fingerprint string   `json:"fingerprint"`
	Slots       int      `json:"slots"`
	Bits        int      `json:"bits"`
	Warnings    []string `json:"warnings,omitempty"`
	Listing     []string `json:"listing"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file.slang>",
		Short: "Compile S-Lang source to an operation sequence",
		Long: `Compile an S-Lang program and print its lowered operation sequence.

The compiler allocates slot pairs, hardens each unit, places couplings,
and appends measurements. Topology warnings are advisory and do not
fail the compile.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Complexity, "complexity", 0, "hardening iterations per unit (0 = topology default)")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "skip theta clamping to the safe range")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prog, err := compileFile(opts.RootOptions, path, opts.Complexity, opts.Unsafe, formatter)
	if err != nil {
		return err
	}

	return outputSequence(formatter, prog)
}

// compileFile reads and compiles a source file, mapping failures onto
// formatter output and exit codes.
func compileFile(opts *RootOptions, path string, complexity int, unsafe bool, formatter *OutputFormatter) (*compiler.Program, error) {
	topo, err := loadTopology(opts)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err), nil)
		return nil, WrapExitError(ExitCommandError, "reading source", err)
	}

	var copts []compiler.Option
	if complexity > 0 {
		copts = append(copts, compiler.WithComplexity(complexity))
	}
	if unsafe {
		copts = append(copts, compiler.Unsafe())
	}

	formatter.VerboseLog("compiling %s", path)

	prog, err := compiler.CompileSource(string(src), topo, copts...)
	if err != nil {
		code := ErrCodeCompile
		var synErr *lang.SyntaxError
		if errors.As(err, &synErr) {
			code = ErrCodeSyntax
		}
		_ = formatter.Error(code, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "compiling "+path, err)
	}
	return prog, nil
}

func sequenceOutput(prog *compiler.Program) *SequenceOutput {
	listing := make([]string, len(prog.Sequence.Ops))
	for i, op := range prog.Sequence.Ops {
		listing[i] = op.String()
	}
	return &SequenceOutput{
		Name:        prog.Name,
		Fingerprint: prog.Fingerprint,
		Slots:       prog.Sequence.Slots,
		Bits:        prog.Sequence.Bits,
		Warnings:    prog.Warnings,
		Listing:     listing,
	}
}

func outputSequence(formatter *OutputFormatter, prog *compiler.Program) error {
	out := sequenceOutput(prog)
	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s (%d slots, %d bits)\n", out.Name, out.Slots, out.Bits)
	fmt.Fprintf(formatter.Writer, "  fingerprint: %s\n", out.Fingerprint)
	for _, w := range out.Warnings {
		fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
	}
	fmt.Fprintln(formatter.Writer)
	for _, line := range out.Listing {
		fmt.Fprintf(formatter.Writer, "  %s\n", line)
	}
	return nil
}

// newFormatter builds the standard formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
