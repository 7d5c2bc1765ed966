package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/typematrix/internal/harness"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	PlanFile string
	Runs     int
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [plan...]",
		Short: "Check that repeated runs produce identical results",
		Long: `Run each plan several times and compare the canonical fingerprints of
the ordered results. A plan whose runs disagree is unstable; the first
disagreement is printed as a diff.

Exit codes:
  0 - Every plan is stable
  1 - One or more plans are unstable, or the run was interrupted
  2 - Command error

Examples:
  typematrix verify
  typematrix verify arrays --runs 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyPlans(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PlanFile, "plan-file", "", "path to a plan YAML file")
	cmd.Flags().IntVar(&opts.Runs, "runs", defaultVerifyN, "number of runs per plan (at least 2)")

	return cmd
}

func verifyPlans(opts *VerifyOptions, names []string, cmd *cobra.Command) error {
	runs := opts.Settings.Runs
	if runs < 2 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--runs must be at least 2, got %d", runs))
	}
	plans, err := resolvePlans(names, opts.PlanFile, opts.Settings.Plans)
	if err != nil {
		return err
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx, stop := signalContext(cmd, logger)
	defer stop()

	runner := opts.newRunner(nil, nil, logger)
	out := opts.formatter(cmd)

	var results []*harness.Stability
	var unstable []string
	for _, plan := range plans {
		st, err := runner.Verify(ctx, plan, runs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return WrapExitError(ExitFailure, fmt.Sprintf("plan %s interrupted", plan.Name), err)
			}
			return WrapExitError(ExitCommandError, fmt.Sprintf("plan %s could not run", plan.Name), err)
		}
		results = append(results, st)
		if !st.Stable {
			unstable = append(unstable, st.Plan)
		}
		out.VerboseLog("%s: %v", st.Plan, st.Fingerprints)
	}

	if opts.Format == "json" {
		if err := out.Success(results); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, st := range results {
			if st.Stable {
				fmt.Fprintf(w, "✓ %s: stable across %d runs (fingerprint %s)\n",
					st.Plan, st.Runs, shortFingerprint(st.Fingerprints[0]))
				continue
			}
			fmt.Fprintf(w, "✗ %s: unstable across %d runs\n", st.Plan, st.Runs)
			fmt.Fprintln(w, st.Diff)
		}
	}

	if len(unstable) > 0 {
		return NewExitError(ExitFailure, "unstable plans: "+strings.Join(unstable, ", "))
	}
	return nil
}
