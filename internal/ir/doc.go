// Package ir holds the canonical tree used to fingerprint check result
// sequences.
//
// Trees are built from String, Int, Bool, Array and Object only. There is no
// float or null node: rendered values are already strings by the time they
// reach this package, so a fingerprint never depends on float formatting.
// Encoding follows RFC 8785 (UTF-16 key order, no HTML escaping). Strings are
// written byte for byte and never normalized.
package ir
