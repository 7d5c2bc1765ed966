package store

import (
	"context"
	"fmt"

	"github.com/roach88/typematrix/internal/equiv"
	"github.com/roach88/typematrix/internal/ir"
)

// Run identifies one execution of a plan.
type Run struct {
	ID          string `json:"id"`
	Plan        string `json:"plan"`
	Target      string `json:"target"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// BeginRun registers a run. Registering the same id twice is an error.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, plan, target) VALUES (?, ?, ?)`,
		run.ID, run.Plan, run.Target,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteCheck appends one result to a run. seq orders the result within the
// run; writing the same (run, seq) twice is an error.
func (s *Store) WriteCheck(ctx context.Context, runID string, seq int64, r equiv.CheckResult) error {
	checkID, err := ir.CheckID(r.Canonical(), seq)
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checks
		(run_id, seq, check_id, phase, category, op, idx, expected, actual, rule, passed, code, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID, seq, checkID,
		r.Phase, r.Category, string(r.Op), r.Index,
		r.Expected, r.Actual, r.Rule,
		boolToInt(r.Passed), string(r.Code), r.Detail,
	)
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// FinishRun records the fingerprint of a completed run.
func (s *Store) FinishRun(ctx context.Context, runID, fingerprint string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET fingerprint = ? WHERE id = ?`, fingerprint, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
