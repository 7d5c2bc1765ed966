package equiv

import (
	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/defect"
)

// Op names the operation a check exercises.
type Op string

const (
	OpLength   Op = "length"
	OpLoad     Op = "load"
	OpDeref    Op = "deref"
	OpIdentity Op = "identity"
	OpName     Op = "name"
	OpFormat   Op = "format"
	OpRelease  Op = "release"
	OpSwitch   Op = "switch"
	OpMultiply Op = "multiply"
	OpDivide   Op = "divide"
)

// CheckResult is the outcome of one check. Results are values; once
// produced they are never modified.
type CheckResult struct {
	Phase    string `json:"phase"`
	Category string `json:"category"`
	Op       Op     `json:"op"`
	Index    int    `json:"index"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Rule     string `json:"rule"`
	Passed   bool   `json:"passed"`

	// Code is empty for passing checks, ASSERTION_MISMATCH for ordinary
	// failures, and the defect code when a defect stopped the check.
	Code defect.Code `json:"code,omitempty"`

	// Detail carries the defect message, if any.
	Detail string `json:"detail,omitempty"`
}

// Checker compares values using per-category default comparators.
type Checker struct {
	Tolerances Tolerances
}

// NewChecker creates a checker with the given float tolerances.
func NewChecker(tol Tolerances) *Checker {
	return &Checker{Tolerances: tol}
}

// Check compares actual against expected with the category's default comparator.
func (c *Checker) Check(cat catalog.Category, op Op, index int, expected, actual catalog.Value) CheckResult {
	return CheckWith(ForCategory(cat, c.Tolerances), cat.String(), op, index, expected, actual)
}

// CheckWith compares actual against expected with an explicit comparator.
func CheckWith(cmp Comparator, category string, op Op, index int, expected, actual catalog.Value) CheckResult {
	passed := cmp.Equivalent(expected, actual)
	r := CheckResult{
		Category: category,
		Op:       op,
		Index:    index,
		Expected: catalog.Render(expected),
		Actual:   catalog.Render(actual),
		Rule:     cmp.Rule(),
		Passed:   passed,
	}
	if !passed {
		r.Code = defect.AssertionMismatch
	}
	return r
}

// CheckText compares two rendered strings byte for byte.
func CheckText(category string, op Op, index int, expected, actual string) CheckResult {
	r := CheckResult{
		Category: category,
		Op:       op,
		Index:    index,
		Expected: expected,
		Actual:   actual,
		Rule:     "exact",
		Passed:   expected == actual,
	}
	if !r.Passed {
		r.Code = defect.AssertionMismatch
	}
	return r
}

// Failed records a check that could not complete because of a defect.
// The expected value is rendered; the actual value is absent.
func Failed(category string, op Op, index int, expected catalog.Value, err error) CheckResult {
	return FailedText(category, op, index, catalog.Render(expected), err)
}

// FailedText is Failed with an already rendered expectation.
func FailedText(category string, op Op, index int, expected string, err error) CheckResult {
	r := CheckResult{
		Category: category,
		Op:       op,
		Index:    index,
		Expected: expected,
		Actual:   "<error>",
		Rule:     "exact",
		Code:     defect.CodeOf(err),
	}
	if r.Code == "" {
		r.Code = defect.AssertionMismatch
	}
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}

// WithPhase returns a copy of r attributed to a phase.
func (r CheckResult) WithPhase(phase string) CheckResult {
	r.Phase = phase
	return r
}
