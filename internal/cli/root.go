package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/typematrix/internal/harness"
	"github.com/roach88/typematrix/internal/ir"
	"github.com/roach88/typematrix/internal/report"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Target  string
	Config  string

	// Settings is resolved from Config, the environment and the flags
	// before any subcommand runs.
	Settings Settings

	// RunIDs overrides the run id generator (for testing).
	RunIDs harness.RunIDGenerator

	// afterRun is called after each watch run.
	afterRun func(*PlanReport)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the typematrix CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "typematrix",
		Short:   "typematrix - container round-trip checker",
		Long:    "Builds a fixed-length container per value category, reads every element back and reports which round trips hold.",
		Version: ir.ToolVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(opts.Config, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "configuration", err)
			}
			opts.Settings = s
			opts.Format = s.Format
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Target, "target", "", "target architecture (amd64|arm64|riscv64|386|arm; default host)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./typematrix.yaml)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
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

// newLogger writes text logs to w at Info, or Debug when verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM. The returned stop function must be called.
func signalContext(cmd *cobra.Command, logger *slog.Logger) (context.Context, func()) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func (opts *RootOptions) newRunner(reporter report.Reporter, ledger harness.Ledger, logger *slog.Logger) *harness.Runner {
	target := opts.Settings.Target
	tol := opts.Settings.Tolerances
	return harness.NewRunner(harness.Config{
		Target:     &target,
		Tolerances: &tol,
		Reporter:   reporter,
		Ledger:     ledger,
		RunIDs:     opts.RunIDs,
		Logger:     logger,
	})
}
