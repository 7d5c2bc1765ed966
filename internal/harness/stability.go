package harness

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Stability is the outcome of running one plan several times.
type Stability struct {
	Plan         string   `json:"plan"`
	Runs         int      `json:"runs"`
	Fingerprints []string `json:"fingerprints"`
	Stable       bool     `json:"stable"`

	// Diff is a go-cmp diff (-first +later) of the first run against the
	// first run that disagreed with it. Empty when stable.
	Diff string `json:"diff,omitempty"`
}

// Verify runs plan n times and compares the ordered results of every run
// against the first.
func (r *Runner) Verify(ctx context.Context, plan *Plan, n int) (*Stability, error) {
	if n < 2 {
		return nil, fmt.Errorf("verify: need at least 2 runs, got %d", n)
	}
	st := &Stability{Plan: plan.Name, Runs: n, Stable: true}

	var first *Result
	for i := 0; i < n; i++ {
		res, err := r.Run(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("verify run %d: %w", i+1, err)
		}
		st.Fingerprints = append(st.Fingerprints, res.Fingerprint)
		if first == nil {
			first = res
			continue
		}
		if st.Stable {
			if diff := CompareRuns(first, res); diff != "" {
				st.Stable = false
				st.Diff = diff
			}
		}
	}
	return st, nil
}

// CompareRuns returns a diff of two runs' ordered results, or "" when the
// fingerprints and results agree. Run ids are not compared.
func CompareRuns(a, b *Result) string {
	if a.Fingerprint == b.Fingerprint {
		return ""
	}
	diff := cmp.Diff(a.Results, b.Results)
	if diff == "" {
		// Same results under different fingerprints means the encoding
		// changed between runs; report the fingerprints instead.
		diff = fmt.Sprintf("fingerprint %s != %s", a.Fingerprint, b.Fingerprint)
	}
	return diff
}
