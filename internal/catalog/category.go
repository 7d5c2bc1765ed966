package catalog

import (
	"fmt"
	"strings"
)

// Category is a tagged variant over the kinds of value under test.
//
// The native int, byte and bool categories carry a Category suffix; Int,
// Byte and Bool name the sample value types.
type Category int

const (
	Int8 Category = iota
	Int16
	Int32
	Int64
	IntCategory
	UInt8
	UInt16
	UInt32
	UInt64
	UInt
	ByteCategory
	Float32
	Float64
	FloatNative
	BoolCategory
	RawPointer
	TypedPointer
	OwnedAggregatePointer
	Struct
	Enum
	TextPointer

	numCategories
)

// Kind groups categories that share a comparison rule.
type Kind string

const (
	KindSigned    Kind = "signed"
	KindUnsigned  Kind = "unsigned"
	KindFloat     Kind = "float"
	KindBool      Kind = "bool"
	KindPointer   Kind = "pointer"
	KindText      Kind = "text"
	KindAggregate Kind = "aggregate"
	KindEnum      Kind = "enum"
)

var categoryNames = [numCategories]string{
	Int8:                  "int8",
	Int16:                 "int16",
	Int32:                 "int32",
	Int64:                 "int64",
	IntCategory:           "int",
	UInt8:                 "uint8",
	UInt16:                "uint16",
	UInt32:                "uint32",
	UInt64:                "uint64",
	UInt:                  "uint",
	ByteCategory:          "byte",
	Float32:               "float32",
	Float64:               "float64",
	FloatNative:           "float",
	BoolCategory:          "bool",
	RawPointer:            "void*",
	TypedPointer:          "int*",
	OwnedAggregatePointer: "Point*",
	Struct:                "Point",
	Enum:                  "Color",
	TextPointer:           "string",
}

// String returns the category's source-level type name.
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// Kind returns the comparison group of the category.
func (c Category) Kind() Kind {
	switch c {
	case Int8, Int16, Int32, Int64, IntCategory:
		return KindSigned
	case UInt8, UInt16, UInt32, UInt64, UInt, ByteCategory:
		return KindUnsigned
	case Float32, Float64, FloatNative:
		return KindFloat
	case BoolCategory:
		return KindBool
	case RawPointer, TypedPointer:
		return KindPointer
	case TextPointer:
		return KindText
	case Struct, OwnedAggregatePointer:
		return KindAggregate
	case Enum:
		return KindEnum
	}
	return ""
}

// Width returns the storage width in bits of one element on the target.
// Native-width integers, pointers and text references take the target word
// size. The Point record is two native ints plus a text reference; no
// alignment padding is added.
func (c Category) Width(t Target) int {
	word := t.WordSize * 8
	switch c {
	case Int8, UInt8, ByteCategory, BoolCategory:
		return 8
	case Int16, UInt16:
		return 16
	case Int32, UInt32, Float32, FloatNative:
		return 32
	case Int64, UInt64, Float64:
		return 64
	case IntCategory, UInt, Enum, RawPointer, TypedPointer, TextPointer, OwnedAggregatePointer:
		return word
	case Struct:
		return 3 * word
	}
	return 0
}

// All returns every declared category in declaration order.
func All() []Category {
	out := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory resolves a category from its type name.
// Matching is case-insensitive for the plain identifiers.
func ParseCategory(name string) (Category, error) {
	for c := Category(0); c < numCategories; c++ {
		if categoryNames[c] == name || strings.EqualFold(categoryNames[c], name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}
