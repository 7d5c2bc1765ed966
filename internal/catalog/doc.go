// Package catalog declares the type categories exercised by the matrix and
// the representative sample values used to populate every container.
//
// # Categories
//
// A Category is one primitive or composite kind of value: fixed-width
// signed and unsigned integers, native-width integers, bytes, single and
// double precision floats, booleans, raw and typed pointers, text pointers,
// aggregate records, heap-allocated aggregate pointers, and the Color
// enumeration. Categories are declared once, in a fixed order, by All.
//
// # Samples
//
// SamplesFor returns the samples for a category: three values (low, mid,
// high) for most categories and four for bool and Color. The table is built
// at package initialization and never mutated; SamplesFor hands out copies.
//
// # Values
//
// Value is a sealed interface. Only Int, Uint, Byte, Float, Bool, Text,
// Color, Point and Ref implement it. Pointers are modelled as Ref values:
// a named referent pool plus a slot index, never an address.
package catalog
