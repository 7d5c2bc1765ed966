package harness

import (
	"github.com/roach88/typematrix/internal/equiv"
)

// Result is the outcome of one plan run.
type Result struct {
	RunID  string `json:"run_id"`
	Plan   string `json:"plan"`
	Target string `json:"target"`

	// Results holds every check, in the order it was produced.
	Results []equiv.CheckResult `json:"results"`

	// Transcript is the rendered console transcript of the run.
	Transcript []string `json:"transcript"`

	// Fingerprint hashes Results; equal fingerprints mean identical runs.
	Fingerprint string `json:"fingerprint"`

	Passed int `json:"passed"`
	Failed int `json:"failed"`

	// Halted lists the categories stopped early by a fatal defect or a
	// container that could not be built.
	Halted []string `json:"halted,omitempty"`
}

func newResult(runID, plan, target string) *Result {
	return &Result{
		RunID:      runID,
		Plan:       plan,
		Target:     target,
		Results:    []equiv.CheckResult{},
		Transcript: []string{},
	}
}

func (r *Result) add(cr equiv.CheckResult) {
	r.Results = append(r.Results, cr)
	if cr.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
}

// Pass reports whether every check passed.
func (r *Result) Pass() bool {
	return r.Failed == 0
}

// Failures returns the failed checks, in order.
func (r *Result) Failures() []equiv.CheckResult {
	var out []equiv.CheckResult
	for _, cr := range r.Results {
		if !cr.Passed {
			out = append(out, cr)
		}
	}
	return out
}
