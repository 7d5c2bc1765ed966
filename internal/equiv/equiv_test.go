package equiv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/defect"
	"github.com/roach88/typematrix/internal/ir"
)

func TestExact(t *testing.T) {
	tests := []struct {
		name     string
		exp, act catalog.Value
		want     bool
	}{
		{"equal ints", catalog.Int(-100), catalog.Int(-100), true},
		{"different ints", catalog.Int(-100), catalog.Int(100), false},
		{"int vs uint", catalog.Int(10), catalog.Uint(10), false},
		{"bools", catalog.Bool(true), catalog.Bool(true), true},
		{"enum by discriminant", catalog.Blue, catalog.Color(2), true},
		{"enum unknown raw value", catalog.Color(9), catalog.Color(9), true},
		{"enum unknown differs", catalog.Color(9), catalog.Color(10), false},
		{"points", catalog.Point{X: 1, Y: 2, Name: "a"}, catalog.Point{X: 1, Y: 2, Name: "a"}, true},
		{"point name bytes", catalog.Point{X: 1, Y: 2, Name: "a"}, catalog.Point{X: 1, Y: 2, Name: "A"}, false},
		{"nil expected", nil, catalog.Int(1), false},
		{"nil actual", catalog.Int(1), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Exact{}.Equivalent(tt.exp, tt.act))
		})
	}
}

func TestEpsilon(t *testing.T) {
	cmp := Epsilon{Eps: 1e-6}
	assert.True(t, cmp.Equivalent(catalog.Float(1.1), catalog.Float(float64(float32(1.1)))))
	assert.False(t, cmp.Equivalent(catalog.Float(1.1), catalog.Float(1.2)))
	assert.False(t, Epsilon{Eps: 0.5}.Equivalent(catalog.Float(1), catalog.Float(1.5)), "bound is strict")
	assert.False(t, cmp.Equivalent(catalog.Int(1), catalog.Float(1)))
	assert.Equal(t, "|d| < 1e-06", cmp.Rule())
}

func TestInterval_FloatScenario(t *testing.T) {
	y, z := 3.14, 2.71

	product := Interval{Lo: 8.5, Hi: 8.51}
	assert.True(t, product.Equivalent(catalog.Float(8.5094), catalog.Float(y*z)))
	assert.Equal(t, "(8.5, 8.51)", product.Rule())

	quotient := Interval{Lo: 1.56, Hi: 1.58}
	assert.True(t, quotient.Equivalent(catalog.Float(1.57), catalog.Float(y/2.0)))

	assert.False(t, product.Equivalent(nil, catalog.Float(8.5)), "open interval excludes the bound")
	assert.False(t, product.Equivalent(nil, catalog.Float(8.51)))
	assert.False(t, product.Equivalent(nil, catalog.Int(8)))
}

func TestDereferenceAndIdentity(t *testing.T) {
	a := catalog.Ref{Pool: catalog.PoolValues, Slot: 0, Target: catalog.Int(42)}
	sameTargetOtherSlot := catalog.Ref{Pool: catalog.PoolValues, Slot: 1, Target: catalog.Int(42)}
	sameSlotOtherTarget := catalog.Ref{Pool: catalog.PoolValues, Slot: 0, Target: catalog.Int(43)}

	assert.True(t, Dereference{}.Equivalent(a, sameTargetOtherSlot))
	assert.False(t, Dereference{}.Equivalent(a, sameSlotOtherTarget))
	assert.True(t, Identity{}.Equivalent(a, sameSlotOtherTarget))
	assert.False(t, Identity{}.Equivalent(a, sameTargetOtherSlot))
	assert.False(t, Identity{}.Equivalent(a, catalog.Int(42)))

	text := catalog.Ref{Pool: catalog.PoolStrings, Slot: 2, Target: catalog.Text("GBC")}
	assert.True(t, Dereference{}.Equivalent(text, catalog.Ref{Target: catalog.Text("GBC")}))
	assert.False(t, Dereference{}.Equivalent(text, catalog.Ref{Target: catalog.Text("GBC ")}))
}

func TestForCategory(t *testing.T) {
	tol := DefaultTolerances()
	assert.Equal(t, Epsilon{Eps: 1e-6}, ForCategory(catalog.Float32, tol))
	assert.Equal(t, Epsilon{Eps: 1e-6}, ForCategory(catalog.FloatNative, tol))
	assert.Equal(t, Epsilon{Eps: 1e-12}, ForCategory(catalog.Float64, tol))
	assert.Equal(t, Dereference{}, ForCategory(catalog.TypedPointer, tol))
	assert.Equal(t, Dereference{}, ForCategory(catalog.TextPointer, tol))
	assert.Equal(t, Identity{}, ForCategory(catalog.RawPointer, tol))
	for _, c := range []catalog.Category{catalog.Int8, catalog.UInt, catalog.BoolCategory, catalog.Enum, catalog.Struct, catalog.OwnedAggregatePointer} {
		assert.Equal(t, Exact{}, ForCategory(c, tol), c.String())
	}
}

func TestChecker_Check(t *testing.T) {
	c := NewChecker(DefaultTolerances())

	pass := c.Check(catalog.Int16, OpLoad, 2, catalog.Int(1000), catalog.Int(1000))
	assert.Equal(t, CheckResult{
		Category: "int16",
		Op:       OpLoad,
		Index:    2,
		Expected: "1000",
		Actual:   "1000",
		Rule:     "exact",
		Passed:   true,
	}, pass)

	fail := c.Check(catalog.Int16, OpLoad, 2, catalog.Int(1000), catalog.Int(-24))
	assert.False(t, fail.Passed)
	assert.Equal(t, defect.AssertionMismatch, fail.Code)
	assert.Equal(t, "-24", fail.Actual)
}

func TestCheckText(t *testing.T) {
	r := CheckText("int", OpFormat, -1, "int array: [-100, 0, 100]", "int array: [-100, 0, 100]")
	assert.True(t, r.Passed)
	assert.Empty(t, r.Code)

	r = CheckText("int", OpFormat, -1, "a", "b")
	assert.False(t, r.Passed)
	assert.Equal(t, defect.AssertionMismatch, r.Code)
}

func TestFailed(t *testing.T) {
	r := Failed("Point*", OpLoad, 0, catalog.Point{X: 1}, defect.NewLifecycle(3, "read after release"))
	assert.False(t, r.Passed)
	assert.Equal(t, defect.LifecycleViolation, r.Code)
	assert.Equal(t, "<error>", r.Actual)
	assert.Contains(t, r.Detail, "read after release")

	r = Failed("int", OpLoad, 0, catalog.Int(1), errors.New("plain"))
	assert.Equal(t, defect.AssertionMismatch, r.Code)
}

func TestWithPhase_Copies(t *testing.T) {
	r := CheckText("int", OpFormat, -1, "x", "x")
	p := r.WithPhase("integers")
	assert.Equal(t, "integers", p.Phase)
	assert.Empty(t, r.Phase)
}

func TestCanonical_OmitsEmptyCode(t *testing.T) {
	pass := NewChecker(DefaultTolerances()).Check(catalog.Int8, OpLoad, 0, catalog.Int(-50), catalog.Int(-50))
	obj := pass.Canonical()
	assert.NotContains(t, obj, "code")
	assert.NotContains(t, obj, "detail")
	assert.Equal(t, ir.Bool(true), obj["passed"])

	fail := Failed("Point*", OpRelease, 0, catalog.Point{}, defect.NewLifecycle(1, "handle already released"))
	obj = fail.Canonical()
	assert.Equal(t, ir.String("LIFECYCLE_VIOLATION"), obj["code"])
	assert.Contains(t, obj, "detail")

	assert.Len(t, CanonicalSequence([]CheckResult{pass, fail}), 2)
}
