package catalog

import (
	"fmt"

	"github.com/roach88/typematrix/internal/defect"
)

// Referent pool names.
const (
	PoolValues  = "values"
	PoolStrings = "strings"
)

// referents backs the pointer categories. Pointer samples are references
// into these pools.
var referents = map[string][]Value{
	PoolValues:  {Int(42), Int(84), Int(126)},
	PoolStrings: {Text("Hello"), Text("World"), Text("GBC")},
}

func ref(pool string, slot int) Ref {
	return Ref{Pool: pool, Slot: slot, Target: referents[pool][slot]}
}

// samples is the read-only fixture table.
var samples = map[Category][]Value{
	IntCategory:  {Int(-100), Int(0), Int(100)},
	Int8:         {Int(-50), Int(0), Int(50)},
	Int16:        {Int(-1000), Int(0), Int(1000)},
	Int32:        {Int(-100000), Int(0), Int(100000)},
	Int64:        {Int(-1000000), Int(0), Int(1000000)},
	UInt:         {Uint(10), Uint(20), Uint(30)},
	UInt8:        {Uint(100), Uint(150), Uint(200)},
	UInt16:       {Uint(1000), Uint(2000), Uint(3000)},
	UInt32:       {Uint(100000), Uint(200000), Uint(300000)},
	UInt64:       {Uint(1000000), Uint(2000000), Uint(3000000)},
	ByteCategory: {Byte('A'), Byte('B'), Byte('C')},

	FloatNative: {Float(1.1), Float(2.2), Float(3.3)},
	Float32:     {Float(1.25), Float(2.75), Float(3.125)},
	Float64:     {Float(1.123456), Float(2.789012), Float(3.456789)},

	BoolCategory: {Bool(true), Bool(false), Bool(true), Bool(false)},

	TypedPointer: {ref(PoolValues, 0), ref(PoolValues, 1), ref(PoolValues, 2)},
	TextPointer:  {ref(PoolStrings, 0), ref(PoolStrings, 1), ref(PoolStrings, 2)},
	RawPointer:   {ref(PoolValues, 0), ref(PoolStrings, 0), ref(PoolValues, 2)},

	Struct: {
		Point{X: 10, Y: 20, Name: "Origin"},
		Point{X: 100, Y: 200, Name: "Point A"},
		Point{X: -50, Y: 75, Name: "Point B"},
	},
	Enum: {Red, Green, Blue, Yellow},
	OwnedAggregatePointer: {
		Point{X: 300, Y: 400, Name: "Dynamic A"},
		Point{X: -150, Y: 250, Name: "Dynamic B"},
		Point{X: 0, Y: -300, Name: "Dynamic C"},
	},
}

// SamplesFor returns a copy of the samples for a category, in catalog order.
// Returns a ConstructionDefect for a category missing from the table.
func SamplesFor(c Category) ([]Value, error) {
	vals, ok := samples[c]
	if !ok || len(vals) == 0 {
		return nil, defect.NewConstruction(c.String(), "category has no samples in the catalog")
	}
	out := make([]Value, len(vals))
	copy(out, vals)
	return out, nil
}

// MustSamplesFor is like SamplesFor but panics on error.
// Use only in tests or for categories returned by All.
func MustSamplesFor(c Category) []Value {
	vals, err := SamplesFor(c)
	if err != nil {
		panic(err)
	}
	return vals
}

// SampleCount returns the number of samples for a category, or 0 if missing.
func SampleCount(c Category) int {
	return len(samples[c])
}

// Referents returns a copy of the named referent pool.
func Referents(pool string) ([]Value, error) {
	vals, ok := referents[pool]
	if !ok {
		return nil, fmt.Errorf("unknown referent pool %q", pool)
	}
	out := make([]Value, len(vals))
	copy(out, vals)
	return out, nil
}

// Validate checks that every category has samples and that integer samples
// fit the category's width on the target. It runs before any checks so that
// a missing category surfaces as a ConstructionDefect up front.
func Validate(cats []Category, t Target) error {
	for _, c := range cats {
		if !c.Valid() {
			return defect.NewConstruction(c.String(), "undeclared category")
		}
		vals, err := SamplesFor(c)
		if err != nil {
			return err
		}
		for i, v := range vals {
			if err := fits(c, v, t); err != nil {
				return &defect.Error{
					Code:     defect.ConstructionDefect,
					Category: c.String(),
					Index:    i,
					Message:  err.Error(),
				}
			}
		}
	}
	return nil
}

// fits reports whether an integer sample is representable in the
// category's storage width.
func fits(c Category, v Value, t Target) error {
	bits := c.Width(t)
	switch val := v.(type) {
	case Int:
		if c.Kind() != KindSigned {
			return fmt.Errorf("signed sample %d in %s category", val, c.Kind())
		}
		if bits >= 64 {
			return nil
		}
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if int64(val) < lo || int64(val) > hi {
			return fmt.Errorf("sample %d does not fit in %d bits", val, bits)
		}
	case Uint:
		if c.Kind() != KindUnsigned {
			return fmt.Errorf("unsigned sample %d in %s category", val, c.Kind())
		}
		if bits < 64 && uint64(val) > uint64(1)<<bits-1 {
			return fmt.Errorf("sample %d does not fit in %d bits", val, bits)
		}
	}
	return nil
}
