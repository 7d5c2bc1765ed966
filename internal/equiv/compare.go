// Package equiv compares expected and actual catalog values and produces
// immutable CheckResults.
//
// Integers, booleans, enums and aggregates compare exactly; enums compare by
// raw discriminant. Typed and text pointers compare by the value they
// dereference to, raw pointers by referent identity. Floats compare inside a
// tolerance band, either a symmetric epsilon or an explicit open interval.
package equiv

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/typematrix/internal/catalog"
)

// Comparator decides whether an actual value is equivalent to an expected one.
type Comparator interface {
	// Equivalent reports whether actual matches expected.
	Equivalent(expected, actual catalog.Value) bool

	// Rule describes the comparison, e.g. "exact" or "(8.5, 8.51)".
	Rule() string
}

// Exact compares values with ==. Values of different dynamic types never match.
type Exact struct{}

func (Exact) Equivalent(expected, actual catalog.Value) bool {
	if expected == nil || actual == nil {
		return false
	}
	return expected == actual
}

func (Exact) Rule() string { return "exact" }

// Epsilon passes when |actual - expected| < Eps.
type Epsilon struct {
	Eps float64
}

func (e Epsilon) Equivalent(expected, actual catalog.Value) bool {
	exp, ok1 := expected.(catalog.Float)
	act, ok2 := actual.(catalog.Float)
	if !ok1 || !ok2 {
		return false
	}
	return math.Abs(float64(act)-float64(exp)) < e.Eps
}

func (e Epsilon) Rule() string {
	return "|d| < " + strconv.FormatFloat(e.Eps, 'g', -1, 64)
}

// Interval passes when Lo < actual < Hi. The expected value is reported but
// does not take part in the comparison.
type Interval struct {
	Lo float64
	Hi float64
}

func (iv Interval) Equivalent(_, actual catalog.Value) bool {
	act, ok := actual.(catalog.Float)
	if !ok {
		return false
	}
	return float64(act) > iv.Lo && float64(act) < iv.Hi
}

func (iv Interval) Rule() string {
	return fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(iv.Lo, 'g', -1, 64),
		strconv.FormatFloat(iv.Hi, 'g', -1, 64))
}

// Dereference compares the targets of two references. Text targets compare
// as byte sequences.
type Dereference struct{}

func (Dereference) Equivalent(expected, actual catalog.Value) bool {
	exp, ok1 := expected.(catalog.Ref)
	act, ok2 := actual.(catalog.Ref)
	if !ok1 || !ok2 {
		return false
	}
	return Exact{}.Equivalent(exp.Target, act.Target)
}

func (Dereference) Rule() string { return "dereference" }

// Identity compares which referent slot two references name.
type Identity struct{}

func (Identity) Equivalent(expected, actual catalog.Value) bool {
	exp, ok1 := expected.(catalog.Ref)
	act, ok2 := actual.(catalog.Ref)
	if !ok1 || !ok2 {
		return false
	}
	return exp.SameReferent(act)
}

func (Identity) Rule() string { return "identity" }

// Tolerances holds the default epsilon per float precision.
type Tolerances struct {
	Float32 float64 `yaml:"float32" mapstructure:"float32"`
	Float64 float64 `yaml:"float64" mapstructure:"float64"`
}

// DefaultTolerances covers single-precision rounding of the catalog's
// float samples and leaves double precision almost exact.
func DefaultTolerances() Tolerances {
	return Tolerances{Float32: 1e-6, Float64: 1e-12}
}

// ForCategory returns the comparator a category uses by default.
func ForCategory(c catalog.Category, tol Tolerances) Comparator {
	switch c {
	case catalog.Float32, catalog.FloatNative:
		return Epsilon{Eps: tol.Float32}
	case catalog.Float64:
		return Epsilon{Eps: tol.Float64}
	case catalog.TypedPointer, catalog.TextPointer:
		return Dereference{}
	case catalog.RawPointer:
		return Identity{}
	default:
		return Exact{}
	}
}
