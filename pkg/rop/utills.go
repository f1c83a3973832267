package rop

import (
	"errors"
	"reflect"
)

// IsNil reports whether i is an untyped nil or a typed nil of a nillable kind.
func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

func GetErrors(err error) []error {
	if IsNil(err) {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

// IsFaultError reports whether err carries a *FaultError anywhere in its tree.
func IsFaultError(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}
