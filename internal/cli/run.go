package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/typematrix/internal/equiv"
	"github.com/roach88/typematrix/internal/harness"
	"github.com/roach88/typematrix/internal/report"
	"github.com/roach88/typematrix/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	PlanFile   string
	Transcript bool
}

// PlanReport is the outcome of one plan run as the CLI prints it.
type PlanReport struct {
	RunID       string                  `json:"run_id"`
	Plan        string                  `json:"plan"`
	Target      string                  `json:"target"`
	Fingerprint string                  `json:"fingerprint"`
	Passed      int                     `json:"passed"`
	Failed      int                     `json:"failed"`
	Halted      []string                `json:"halted,omitempty"`
	Summary     []store.CategorySummary `json:"summary"`
	Failures    []equiv.CheckResult     `json:"failures,omitempty"`
	Transcript  []string                `json:"transcript,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [plan...]",
		Short: "Run check plans and report every result",
		Long: `Run one or more plans. Each category gets a fresh container; every
element is read back and compared with its sample, and every check is
reported in order.

With no arguments the configured plans run (default: every built-in plan).

Exit codes:
  0 - All plans ran (failed checks are reported, not fatal)
  1 - Run interrupted
  2 - Command error (unknown plan, unreadable plan file, bad config)

Examples:
  typematrix run
  typematrix run arrays --transcript
  typematrix run --plan-file ./plans/floats.yaml --target 386
  typematrix run arithmetic --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PlanFile, "plan-file", "", "path to a plan YAML file")
	cmd.Flags().BoolVar(&opts.Transcript, "transcript", false, "print the rendered transcript")

	return cmd
}

func runPlans(opts *RunOptions, names []string, cmd *cobra.Command) error {
	plans, err := resolvePlans(names, opts.PlanFile, opts.Settings.Plans)
	if err != nil {
		return err
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx, stop := signalContext(cmd, logger)
	defer stop()

	st, err := store.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open result ledger", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing result ledger", "error", closeErr)
		}
	}()

	out := opts.formatter(cmd)
	var reporter report.Reporter = report.Discard{}
	var text *report.Text
	if opts.Format == "text" {
		text = report.NewText(cmd.OutOrStdout(), opts.Verbose)
		reporter = text
	}
	runner := opts.newRunner(reporter, st, logger)

	for _, plan := range plans {
		if opts.Format == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s on %s ==\n", plan.Name, runner.Target().Arch)
		}
		rep, err := executePlan(ctx, runner, st, plan)
		if err != nil {
			return err
		}
		if !opts.Transcript {
			rep.Transcript = nil
		}
		if opts.Format == "json" {
			if err := out.SuccessRun(rep.RunID, rep); err != nil {
				return err
			}
			continue
		}
		if err := writePlanReport(cmd.OutOrStdout(), rep); err != nil {
			return err
		}
	}
	if text != nil && text.Err() != nil {
		return WrapExitError(ExitCommandError, "failed to write results", text.Err())
	}
	return nil
}

// executePlan runs plan and reads its per-category summary back from st.
func executePlan(ctx context.Context, runner *harness.Runner, st *store.Store, plan *harness.Plan) (*PlanReport, error) {
	res, err := runner.Run(ctx, plan)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, WrapExitError(ExitFailure, fmt.Sprintf("plan %s interrupted", plan.Name), err)
		}
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("plan %s could not run", plan.Name), err)
	}
	summary, err := st.Summary(ctx, res.RunID)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to summarize run", err)
	}
	return &PlanReport{
		RunID:       res.RunID,
		Plan:        res.Plan,
		Target:      res.Target,
		Fingerprint: res.Fingerprint,
		Passed:      res.Passed,
		Failed:      res.Failed,
		Halted:      res.Halted,
		Summary:     summary,
		Failures:    res.Failures(),
		Transcript:  res.Transcript,
	}, nil
}

func writePlanReport(w io.Writer, rep *PlanReport) error {
	for _, line := range rep.Transcript {
		fmt.Fprintln(w, line)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tCATEGORY\tPASSED\tFAILED\tFATAL")
	for _, s := range rep.Summary {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", s.Phase, s.Category, s.Passed, s.Failed, s.Fatal)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	status := "PASS"
	if rep.Failed > 0 {
		status = "FAIL"
	}
	_, err := fmt.Fprintf(w, "%s %s: %d passed, %d failed (%s, fingerprint %s)\n",
		status, rep.Plan, rep.Passed, rep.Failed, rep.RunID, shortFingerprint(rep.Fingerprint))
	if err != nil {
		return err
	}
	for _, h := range rep.Halted {
		fmt.Fprintf(w, "  halted: %s\n", h)
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
