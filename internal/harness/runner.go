package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/equiv"
	"github.com/roach88/typematrix/internal/ir"
	"github.com/roach88/typematrix/internal/report"
	"github.com/roach88/typematrix/internal/store"
	"github.com/roach88/typematrix/internal/testutil"
)

// Ledger records results as they are produced. *store.Store implements it.
type Ledger interface {
	BeginRun(ctx context.Context, run store.Run) error
	WriteCheck(ctx context.Context, runID string, seq int64, r equiv.CheckResult) error
	FinishRun(ctx context.Context, runID, fingerprint string) error
}

// Config configures a Runner. Zero values select defaults.
type Config struct {
	// Target selects the word size. Defaults to the host.
	Target *catalog.Target

	// Tolerances are the default float epsilons; plans may override them.
	Tolerances *equiv.Tolerances

	// Reporter receives every result in order. Defaults to report.Discard.
	Reporter report.Reporter

	// Ledger, when set, records every result.
	Ledger Ledger

	// RunIDs defaults to UUIDRunIDs.
	RunIDs RunIDGenerator

	Logger *slog.Logger
}

// Runner executes plans. A Runner runs one plan at a time.
type Runner struct {
	target     catalog.Target
	tolerances equiv.Tolerances
	reporter   report.Reporter
	ledger     Ledger
	runIDs     RunIDGenerator
	logger     *slog.Logger

	state State
}

// NewRunner creates a runner.
func NewRunner(cfg Config) *Runner {
	r := &Runner{
		target:     catalog.HostTarget(),
		tolerances: equiv.DefaultTolerances(),
		reporter:   cfg.Reporter,
		ledger:     cfg.Ledger,
		runIDs:     cfg.RunIDs,
		logger:     cfg.Logger,
		state:      StateIdle,
	}
	if cfg.Target != nil {
		r.target = *cfg.Target
	}
	if cfg.Tolerances != nil {
		r.tolerances = *cfg.Tolerances
	}
	if r.reporter == nil {
		r.reporter = report.Discard{}
	}
	if r.runIDs == nil {
		r.runIDs = UUIDRunIDs{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// State returns the runner's current state.
func (r *Runner) State() State {
	return r.state
}

// Target returns the target the runner sizes containers for.
func (r *Runner) Target() catalog.Target {
	return r.target
}

func (r *Runner) advance(to State) error {
	if !canTransition(r.state, to) {
		return fmt.Errorf("illegal runner transition %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

// Run executes every phase of plan in order.
//
// A missing or unrepresentable category is a ConstructionDefect returned
// before any check runs. After that, check failures and category defects
// are recorded in the Result; the returned error is reserved for an invalid
// plan, a cancelled context, or a ledger failure.
func (r *Runner) Run(ctx context.Context, plan *Plan) (*Result, error) {
	if plan == nil {
		return nil, fmt.Errorf("run: nil plan")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.Validate(plan.Categories(), r.target); err != nil {
		return nil, fmt.Errorf("plan %s: %w", plan.Name, err)
	}
	if r.state == StateDone {
		if err := r.advance(StateIdle); err != nil {
			return nil, err
		}
	}
	if r.state != StateIdle {
		return nil, fmt.Errorf("run: runner is %s", r.state)
	}

	runID := r.runIDs.Generate()
	result := newResult(runID, plan.Name, r.target.Arch)
	clock := testutil.NewDeterministicClock()
	checker := equiv.NewChecker(plan.EffectiveTolerances(r.tolerances))

	var ledgerErr error
	if r.ledger != nil {
		if err := r.ledger.BeginRun(ctx, store.Run{ID: runID, Plan: plan.Name, Target: r.target.Arch}); err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
	}

	logger := r.logger.With("run_id", runID, "plan", plan.Name)
	logger.Info("run started", "target", r.target.Arch, "phases", len(plan.Phases))

	for _, name := range plan.Phases {
		phase, ok := LookupPhase(name)
		if !ok {
			return nil, &PlanError{Plan: plan.Name, Field: "phases", Message: fmt.Sprintf("unknown phase %q", name)}
		}
		result.Transcript = append(result.Transcript, phase.Heading)

		for _, c := range phase.Categories {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := r.advance(StateRunning); err != nil {
				return nil, err
			}

			pr := &phaseRun{
				phase:   phase.Name,
				target:  r.target,
				checker: checker,
				logger:  logger.With("phase", phase.Name, "category", c.String()),
				emit: func(cr equiv.CheckResult) {
					cr = cr.WithPhase(phase.Name)
					seq := clock.Next()
					result.add(cr)
					r.reporter.Report(cr)
					if r.ledger != nil && ledgerErr == nil {
						ledgerErr = r.ledger.WriteCheck(ctx, runID, seq, cr)
					}
				},
				write: func(lines ...string) {
					result.Transcript = append(result.Transcript, lines...)
				},
			}

			pr.logger.Debug("category started")
			if err := phase.check(pr, c); err != nil {
				pr.logger.Warn("category halted", "error", err)
				result.Halted = append(result.Halted, c.String())
			}

			if err := r.advance(StateReported); err != nil {
				return nil, err
			}
			if err := r.advance(StateIdle); err != nil {
				return nil, err
			}
		}
	}
	if err := r.advance(StateDone); err != nil {
		return nil, err
	}

	if ledgerErr != nil {
		return nil, fmt.Errorf("run %s: ledger: %w", runID, ledgerErr)
	}

	fp, err := ir.Fingerprint(equiv.CanonicalSequence(result.Results))
	if err != nil {
		return nil, err
	}
	result.Fingerprint = fp

	if r.ledger != nil {
		if err := r.ledger.FinishRun(ctx, runID, fp); err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
	}

	logger.Info("run finished", "passed", result.Passed, "failed", result.Failed, "fingerprint", fp)
	return result, nil
}
