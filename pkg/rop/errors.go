package rop

import (
	"errors"
	"fmt"
)

// ErrCheckFailed is the error carried by a Fail result produced from a false predicate.
var ErrCheckFailed = errors.New("check failed")

// FaultError is an evaluation fault: a predicate returned an error or panicked.
type FaultError struct {
	Cause     error
	Recovered any
}

func (e *FaultError) Error() string {
	if e.Recovered != nil && e.Cause == nil {
		return fmt.Sprintf("evaluation fault: panic: %v", e.Recovered)
	}
	if e.Recovered != nil {
		return fmt.Sprintf("evaluation fault: panic: %v", e.Cause)
	}
	return fmt.Sprintf("evaluation fault: %v", e.Cause)
}

func (e *FaultError) Unwrap() error {
	return e.Cause
}

// AsFault returns err unchanged when it already is a *FaultError, otherwise wraps it.
func AsFault(err error) error {
	if err == nil {
		return nil
	}
	var fe *FaultError
	if errors.As(err, &fe) {
		return err
	}
	return &FaultError{Cause: err}
}

// RecoveredFault converts a recovered panic value into a *FaultError.
func RecoveredFault(r any) *FaultError {
	if err, ok := r.(error); ok {
		return &FaultError{Cause: err, Recovered: r}
	}
	return &FaultError{Recovered: r}
}
