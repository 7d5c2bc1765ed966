package catalog

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface representing one element of a container.
// Only Int, Uint, Byte, Float, Bool, Text, Color, Point and Ref implement it.
type Value interface {
	catalogValue() // Sealed - only these types implement it
}

// Int is a signed integer sample, stored in the category's width.
type Int int64

func (Int) catalogValue() {}

// Uint is an unsigned integer sample, stored in the category's width.
type Uint uint64

func (Uint) catalogValue() {}

// Byte is a single byte, rendered as a character.
type Byte byte

func (Byte) catalogValue() {}

// Float is a floating-point sample. Single-precision categories round it
// to float32 on store.
type Float float64

func (Float) catalogValue() {}

// Bool is a boolean sample.
type Bool bool

func (Bool) catalogValue() {}

// Text is an immutable byte string.
type Text string

func (Text) catalogValue() {}

// Color is a discriminant of the Color enumeration. Values outside the
// closed set are representable and keep their raw value.
type Color int

func (Color) catalogValue() {}

const (
	Red Color = iota
	Green
	Blue
	Yellow
)

// ColorUnknown is the display name of any discriminant outside the closed set.
const ColorUnknown = "UNKNOWN"

// Name returns the display name of the discriminant. The mapping is total:
// anything outside {Red, Green, Blue, Yellow} maps to ColorUnknown.
func (c Color) Name() string {
	switch c {
	case Red:
		return "RED"
	case Green:
		return "GREEN"
	case Blue:
		return "BLUE"
	case Yellow:
		return "YELLOW"
	default:
		return ColorUnknown
	}
}

// Point is the aggregate record: two signed integers and a text reference.
type Point struct {
	X    int64
	Y    int64
	Name Text
}

func (Point) catalogValue() {}

// Ref is a reference relation standing in for an address: a slot in a named
// referent pool. Target is the value the slot must hold while the reference
// is checked.
type Ref struct {
	Pool   string
	Slot   int
	Target Value
}

func (Ref) catalogValue() {}

// SameReferent reports whether two references name the same pool slot.
func (r Ref) SameReferent(o Ref) bool {
	return r.Pool == o.Pool && r.Slot == o.Slot
}

// Render returns the exact textual form of a value.
// Floats use the shortest representation that round-trips.
func Render(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Uint:
		return strconv.FormatUint(uint64(val), 10)
	case Byte:
		return strconv.QuoteRune(rune(val))
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Text:
		return strconv.Quote(string(val))
	case Color:
		return fmt.Sprintf("%s (%d)", val.Name(), int(val))
	case Point:
		return fmt.Sprintf("(%d, %d) %q", val.X, val.Y, string(val.Name))
	case Ref:
		return fmt.Sprintf("&%s[%d] -> %s", val.Pool, val.Slot, Render(val.Target))
	default:
		return fmt.Sprintf("%v", v)
	}
}
