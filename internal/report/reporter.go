// Package report receives CheckResults from the Scenario Runner and renders
// them. Reporters accept results in the order produced and never fail the
// caller: write errors are kept and exposed through Err.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/roach88/typematrix/internal/equiv"
)

// Reporter consumes check results.
type Reporter interface {
	Report(r equiv.CheckResult)
}

// Collector keeps every result in memory, in order.
type Collector struct {
	mu      sync.Mutex
	results []equiv.CheckResult
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report appends r.
func (c *Collector) Report(r equiv.CheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Results returns a copy of the collected results.
func (c *Collector) Results() []equiv.CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]equiv.CheckResult, len(c.results))
	copy(out, c.results)
	return out
}

// Text writes one line per result. Passing results are only written in
// verbose mode.
type Text struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	err     error
}

// NewText creates a text reporter.
func NewText(w io.Writer, verbose bool) *Text {
	return &Text{w: w, verbose: verbose}
}

// Report writes r.
func (t *Text) Report(r equiv.CheckResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r.Passed && !t.verbose {
		return
	}
	if _, err := fmt.Fprintln(t.w, FormatResult(r)); err != nil && t.err == nil {
		t.err = err
	}
}

// Err returns the first write error, if any.
func (t *Text) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// FormatResult renders one result as a single line.
//
//	✓ int8[1] load: 0
//	✗ float32[2] load: expected 3.125, got 3.5 (|d| < 1e-06)
//	✗ Point*[0] release: LIFECYCLE_VIOLATION: handle already released (handle=1)
func FormatResult(r equiv.CheckResult) string {
	mark := "✓"
	if !r.Passed {
		mark = "✗"
	}
	target := r.Category
	if r.Index >= 0 {
		target = fmt.Sprintf("%s[%d]", r.Category, r.Index)
	}
	switch {
	case r.Passed:
		return fmt.Sprintf("%s %s %s: %s", mark, target, r.Op, r.Actual)
	case r.Detail != "":
		return fmt.Sprintf("%s %s %s: %s", mark, target, r.Op, r.Detail)
	default:
		return fmt.Sprintf("%s %s %s: expected %s, got %s (%s)", mark, target, r.Op, r.Expected, r.Actual, r.Rule)
	}
}

// JSONLines writes each result as one JSON object per line.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

// NewJSONLines creates a JSON-lines reporter.
func NewJSONLines(w io.Writer) *JSONLines {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLines{enc: enc}
}

// Report encodes r.
func (j *JSONLines) Report(r equiv.CheckResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(r); err != nil && j.err == nil {
		j.err = err
	}
}

// Err returns the first encode error, if any.
func (j *JSONLines) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Multi fans a result out to several reporters, in order.
type Multi []Reporter

// Report forwards r to every reporter.
func (m Multi) Report(r equiv.CheckResult) {
	for _, rep := range m {
		if rep != nil {
			rep.Report(r)
		}
	}
}

// Discard drops every result.
type Discard struct{}

// Report does nothing.
func (Discard) Report(equiv.CheckResult) {}
