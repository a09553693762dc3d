package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CurrenlyDying/lockworks/internal/asm"
	"github.com/CurrenlyDying/lockworks/internal/compiler"
)

// AsmOptions holds flags for the asm command.
type AsmOptions struct {
	*RootOptions
	Complexity int
	Unsafe     bool
}

// NewAsmCommand creates the asm command.
func NewAsmCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AsmOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "asm <file.gisa>",
		Short: "Assemble G-ISA text and print the lowered sequence",
		Long: `Assemble a G-ISA instruction file and lower it to an operation
sequence. The program takes its name from the file name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsm(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Complexity, "complexity", 0, "hardening iterations per unit (0 = topology default)")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "skip theta clamping to the safe range")

	return cmd
}

func runAsm(opts *AsmOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	topo, err := loadTopology(opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err), nil)
		return WrapExitError(ExitCommandError, "reading source", err)
	}

	var copts []compiler.Option
	if opts.Complexity > 0 {
		copts = append(copts, compiler.WithComplexity(opts.Complexity))
	}
	if opts.Unsafe {
		copts = append(copts, compiler.Unsafe())
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	formatter.VerboseLog("assembling %s as %q", path, name)

	prog, err := compiler.CompileAssembly(name, string(src), topo, copts...)
	if err != nil {
		code := ErrCodeCompile
		var aerr *asm.AssembleError
		if errors.As(err, &aerr) {
			code = ErrCodeSyntax
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "assembling "+path, err)
	}

	return outputSequence(formatter, prog)
}
