package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrIndexOutOfRange matches any *IndexError via errors.Is.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound is returned by repositories for unknown itinerary IDs.
	ErrNotFound = errors.New("itinerary not found")
)

// ValidationError reports a waypoint attribute that was rejected on append.
// The itinerary is left unchanged.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IndexError reports an out-of-range waypoint position. No mutation occurs.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("waypoint index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }
