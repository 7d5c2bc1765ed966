// Package container builds fixed-length sequences for each type category.
//
// Every container stores its elements in the category's native Go
// representation (int8 for Int8, float32 for Float32, a slot reference for
// pointers, a lifecycle handle for heap aggregates) and converts back to
// catalog values only on Load. A store that truncates, or a read that
// aliases the wrong slot, therefore shows up as a mismatch in the checker.
package container

import (
	"github.com/roach88/typematrix/internal/defect"
)

// Array is a fixed-length ordered sequence. Its length is set by NewArray
// and never changes; indices outside [0, Len) are BoundsViolations.
type Array[T any] struct {
	category string
	elems    []T
}

// NewArray allocates a zero-filled array of length n for a category.
func NewArray[T any](category string, n int) *Array[T] {
	if n < 0 {
		n = 0
	}
	return &Array[T]{category: category, elems: make([]T, n)}
}

// Len returns the fixed length.
func (a *Array[T]) Len() int {
	return len(a.elems)
}

// Get returns the element at i.
func (a *Array[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(a.elems) {
		var zero T
		return zero, defect.NewBounds(a.category, i, len(a.elems))
	}
	return a.elems[i], nil
}

// Set writes the element at i.
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= len(a.elems) {
		return defect.NewBounds(a.category, i, len(a.elems))
	}
	a.elems[i] = v
	return nil
}

// Snapshot returns a copy of the elements.
func (a *Array[T]) Snapshot() []T {
	out := make([]T, len(a.elems))
	copy(out, a.elems)
	return out
}
