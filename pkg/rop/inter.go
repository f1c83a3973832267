package rop

import (
	"time"

	"github.com/google/uuid"
)

type ResultProvider[T any] interface {
	// Result returns the successful result value
	Result() T
	// CreatedAt time creation (UTC)
	CreatedAt() time.Time
	// Id unique result id
	Id() uuid.UUID
}

// WithError defines an interface for types that can return a result or an error
type WithError[T any] interface {
	ResultProvider[T]
	// Err returns the error if operation failed
	Err() error
	// IsSuccess returns true if the operation was successful
	IsSuccess() bool
}

// WithFault extends WithError with the failure/fault distinction
type WithFault[T any] interface {
	WithError[T]
	// IsFailure returns true for an expected, recorded failure
	IsFailure() bool
	// IsFault returns true if evaluating the step itself went wrong
	IsFault() bool
}

var _ WithFault[bool] = Result[bool]{}
