package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/typematrix/internal/defect"
	"github.com/roach88/typematrix/internal/equiv"
)

// CategorySummary counts one category's results within a run.
type CategorySummary struct {
	Phase    string `json:"phase"`
	Category string `json:"category"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`

	// Fatal counts results stopped by a construction or lifecycle defect.
	Fatal int `json:"fatal"`
}

// ReadRun returns a registered run.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, plan, target, fingerprint FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Plan, &run.Target, &run.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run: unknown run %q", runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// Results returns every result of a run in seq order.
func (s *Store) Results(ctx context.Context, runID string) ([]equiv.CheckResult, error) {
	return s.queryChecks(ctx, `
		SELECT phase, category, op, idx, expected, actual, rule, passed, code, detail
		FROM checks WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
}

// Failures returns the failed results of a run in seq order.
func (s *Store) Failures(ctx context.Context, runID string) ([]equiv.CheckResult, error) {
	return s.queryChecks(ctx, `
		SELECT phase, category, op, idx, expected, actual, rule, passed, code, detail
		FROM checks WHERE run_id = ? AND passed = 0
		ORDER BY seq ASC
	`, runID)
}

// Summary groups a run's results by category, in the order each category
// first appeared.
func (s *Store) Summary(ctx context.Context, runID string) ([]CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT phase, category,
		       SUM(passed),
		       SUM(1 - passed),
		       SUM(CASE WHEN code IN (?, ?) THEN 1 ELSE 0 END)
		FROM checks WHERE run_id = ?
		GROUP BY phase, category
		ORDER BY MIN(seq) ASC
	`, string(defect.ConstructionDefect), string(defect.LifecycleViolation), runID)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	out := []CategorySummary{}
	for rows.Next() {
		var cs CategorySummary
		if err := rows.Scan(&cs.Phase, &cs.Category, &cs.Passed, &cs.Failed, &cs.Fatal); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return out, nil
}

func (s *Store) queryChecks(ctx context.Context, query string, args ...any) ([]equiv.CheckResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	out := []equiv.CheckResult{}
	for rows.Next() {
		var (
			r      equiv.CheckResult
			op     string
			passed int
			code   string
		)
		if err := rows.Scan(&r.Phase, &r.Category, &op, &r.Index, &r.Expected, &r.Actual, &r.Rule, &passed, &code, &r.Detail); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		r.Op = equiv.Op(op)
		r.Passed = passed == 1
		r.Code = defect.Code(code)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return out, nil
}
