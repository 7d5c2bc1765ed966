// Package defect defines the failure taxonomy for the type matrix.
//
// Every error raised while building containers, reading them back, or
// managing heap-backed aggregates maps to exactly one Code. The Scenario
// Runner uses the code to decide whether a failure is local data (an
// assertion mismatch) or unrecoverable for the affected category.
package defect

import (
	"errors"
	"fmt"
)

// Code categorizes matrix failures.
type Code string

const (
	// ConstructionDefect indicates a category missing from the catalog, or a
	// sample that does not fit its category's storage width.
	ConstructionDefect Code = "CONSTRUCTION_DEFECT"

	// BoundsViolation indicates access to a container index outside its fixed length.
	BoundsViolation Code = "BOUNDS_VIOLATION"

	// LifecycleViolation indicates release of an unknown or already released
	// handle, or access to a handle after release.
	LifecycleViolation Code = "LIFECYCLE_VIOLATION"

	// AssertionMismatch indicates an equivalence check failed.
	AssertionMismatch Code = "ASSERTION_MISMATCH"
)

// Fatal reports whether the code halts the remaining checks of a category.
func (c Code) Fatal() bool {
	return c == ConstructionDefect || c == LifecycleViolation
}

// Error is the structured error type for all matrix failures.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Category names the type category under test, if known.
	Category string

	// Index is the container index involved, or -1.
	Index int

	// Handle is the lifecycle handle involved, or 0.
	Handle uint64

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Handle != 0:
		return fmt.Sprintf("%s: %s (handle=%d)", e.Code, e.Message, e.Handle)
	case e.Category != "" && e.Index >= 0:
		return fmt.Sprintf("%s: %s (category=%s, index=%d)", e.Code, e.Message, e.Category, e.Index)
	case e.Category != "":
		return fmt.Sprintf("%s: %s (category=%s)", e.Code, e.Message, e.Category)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConstruction creates a ConstructionDefect for a category.
func NewConstruction(category, message string) *Error {
	return &Error{Code: ConstructionDefect, Category: category, Index: -1, Message: message}
}

// NewBounds creates a BoundsViolation for an index outside [0, length).
func NewBounds(category string, index, length int) *Error {
	return &Error{
		Code:     BoundsViolation,
		Category: category,
		Index:    index,
		Message:  fmt.Sprintf("index %d out of range [0, %d)", index, length),
	}
}

// NewLifecycle creates a LifecycleViolation for a handle.
func NewLifecycle(handle uint64, message string) *Error {
	return &Error{Code: LifecycleViolation, Index: -1, Handle: handle, Message: message}
}

// CodeOf returns the Code carried by err, or "" when err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsConstructionDefect returns true if the error is a construction defect.
func IsConstructionDefect(err error) bool {
	return CodeOf(err) == ConstructionDefect
}

// IsBoundsViolation returns true if the error is a bounds violation.
func IsBoundsViolation(err error) bool {
	return CodeOf(err) == BoundsViolation
}

// IsLifecycleViolation returns true if the error is a lifecycle violation.
func IsLifecycleViolation(err error) bool {
	return CodeOf(err) == LifecycleViolation
}
