package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CurrenlyDying/lockworks/internal/runtime"
	"github.com/CurrenlyDying/lockworks/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Shots      int
	Complexity int
	Noise      float64
	Unsafe     bool
	Database   string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file.slang>",
		Short: "Compile and execute a program on the simulator",
		Long: `Compile an S-Lang program, execute it on the deterministic
simulator, and print the decoded result.

With --db the run is appended to a SQLite run log; replaying an
identical run is a no-op.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "shot count (0 = topology default)")
	cmd.Flags().IntVar(&opts.Complexity, "complexity", 0, "hardening iterations per unit (0 = topology default)")
	cmd.Flags().Float64Var(&opts.Noise, "noise", 0, "uniform scatter fraction in [0,1)")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "skip theta clamping to the safe range")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run-log path")

	return cmd
}

func runRun(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	prog, err := compileFile(opts.RootOptions, path, opts.Complexity, opts.Unsafe, formatter)
	if err != nil {
		return err
	}

	topo, err := loadTopology(opts.RootOptions)
	if err != nil {
		return err
	}

	sim := runtime.NewSimBackend(topo)
	sim.Noise = opts.Noise

	mgrOpts := []runtime.ManagerOption{runtime.WithBackend(sim)}
	if opts.Database != "" {
		slog.Debug("opening run log", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening run log", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing run log", "error", closeErr)
			}
		}()
		mgrOpts = append(mgrOpts, runtime.WithSink(st))
	}

	mgr := runtime.NewManager(topo, mgrOpts...)

	slog.Debug("executing", "program", prog.Name, "shots", opts.Shots)
	res, err := mgr.Run(cmd.Context(), prog, opts.Shots)
	if err != nil {
		_ = formatter.Error(ErrCodeExecution, err.Error(), nil)
		return WrapExitError(ExitFailure, "executing "+prog.Name, err)
	}

	return outputRunResult(formatter, res)
}

func outputRunResult(formatter *OutputFormatter, res *runtime.Result) error {
	if formatter.Format == "json" {
		return formatter.Success(res)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s  job=%s  shots=%d\n", res.Name, res.JobID, res.Shots)
	fmt.Fprintf(w, "  decoded:    %s  %v\n", res.Reading.Bitstring(), res.Reading.Values)
	fmt.Fprintf(w, "  confidence: %.4f\n", res.Reading.Confidence)
	fmt.Fprintf(w, "  dominance:  %.4f (%s)", res.Analysis.Dominance, res.Analysis.TopState)
	if res.Analysis.Marginal {
		fmt.Fprint(w, "  MARGINAL")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  purity:     %.4f\n", res.Analysis.Purity)
	fmt.Fprintf(w, "  z-score:    %.2fσ", res.Analysis.ZScore)
	if res.Analysis.Significant {
		fmt.Fprint(w, "  SIGNIFICANT")
	}
	fmt.Fprintln(w)
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "  warnings:   %s\n", strings.Join(res.Warnings, "; "))
	}
	return nil
}
