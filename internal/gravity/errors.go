package gravity

import (
	"errors"
	"fmt"
)

// Domain errors for body and system operations.
var (
	// ErrForeignBody indicates two bodies owned by different systems.
	ErrForeignBody = errors.New("gravity: bodies belong to different systems")

	// ErrAlreadyCollided indicates a body that was already consumed by a merge.
	ErrAlreadyCollided = errors.New("gravity: body has already collided")

	// ErrRetired indicates a body that left the simulation.
	ErrRetired = errors.New("gravity: body is no longer active")

	// ErrSelfMerge indicates an attempt to merge a body with itself.
	ErrSelfMerge = errors.New("gravity: body cannot merge with itself")

	// ErrInvalidDt indicates a step interval that is negative or not finite.
	ErrInvalidDt = errors.New("gravity: invalid step interval")

	// ErrNoActiveBodies indicates that every body has collided or escaped.
	ErrNoActiveBodies = errors.New("gravity: no active bodies remaining")
)

// BodyError wraps an error with the body and step it occurred at.
type BodyError struct {
	Body    string
	Step    int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %s (step %d): %v", e.Body, e.Step, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
