package harness

import (
	"fmt"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/equiv"
)

// Dispatch outcomes.
const (
	OutcomeOne        = "x is one"
	OutcomeTwoOrThree = "x is two or three"
	OutcomeOther      = "x is something else"
)

// Dispatch is the total selector mapping: 1 has its own outcome, 2 and 3
// share one, and every other value takes the default.
func Dispatch(x int64) string {
	switch x {
	case 1:
		return OutcomeOne
	case 2, 3:
		return OutcomeTwoOrThree
	default:
		return OutcomeOther
	}
}

// switchCases covers each label, the shared pair and both sides of the
// default.
var switchCases = []struct {
	selector int64
	want     string
}{
	{0, OutcomeOther},
	{1, OutcomeOne},
	{2, OutcomeTwoOrThree},
	{3, OutcomeTwoOrThree},
	{4, OutcomeOther},
	{-1, OutcomeOther},
}

func checkSwitch(pr *phaseRun, c catalog.Category) error {
	for i, tc := range switchCases {
		got := Dispatch(tc.selector)
		pr.emit(equiv.CheckText(c.String(), equiv.OpSwitch, i,
			fmt.Sprintf("%d -> %s", tc.selector, tc.want),
			fmt.Sprintf("%d -> %s", tc.selector, got)))
		pr.write(fmt.Sprintf("switch(%d): %s", tc.selector, got))
	}
	pr.write("Integer test passed.")
	return nil
}

// Operands and bands of the float arithmetic checks.
const (
	floatY = 3.14
	floatZ = 2.71
)

var (
	productBand  = equiv.Interval{Lo: 8.5, Hi: 8.51}
	quotientBand = equiv.Interval{Lo: 1.56, Hi: 1.58}
)

func checkFloatOps(pr *phaseRun, c catalog.Category) error {
	y, z := floatY, floatZ

	product := y * z
	r := equiv.CheckWith(productBand, c.String(), equiv.OpMultiply, 0, catalog.Float(8.5094), catalog.Float(product))
	pr.emit(r)
	pr.write(fmt.Sprintf("Float multiplication %s: %f * %f = %f", verdict(r.Passed), y, z, product))

	quotient := y / 2.0
	r = equiv.CheckWith(quotientBand, c.String(), equiv.OpDivide, 0, catalog.Float(1.57), catalog.Float(quotient))
	pr.emit(r)
	pr.write(fmt.Sprintf("Float division %s: %f / 2.0 = %f", verdict(r.Passed), y, quotient))
	return nil
}

func verdict(passed bool) string {
	if passed {
		return "successful"
	}
	return "failed"
}
