package rop

import (
	"time"

	"github.com/google/uuid"
)

// Result is the typed outcome of a single step: success, recorded failure or fault.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       error
	isSuccess bool
	isFault   bool
}

func Success[T any](r T) Result[T] {
	return Result[T]{
		result:    r,
		isSuccess: true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		err:       err,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Fault wraps err into a *FaultError unless it already is one.
func Fault[T any](err error) Result[T] {
	return Result[T]{
		err:       AsFault(err),
		isFault:   true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Result returns the value of a successful step.
func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

// IsFailure reports a recorded validation failure; faults are not failures.
func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && !r.isFault && r.err != nil
}

func (r Result[T]) IsFault() bool {
	return r.isFault
}

// CreatedAt is the UTC time the outcome was produced.
func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

// Id identifies the outcome; batch reports carry it for correlation.
func (r Result[T]) Id() uuid.UUID {
	return r.id
}
