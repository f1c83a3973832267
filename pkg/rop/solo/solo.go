package solo

import (
	"github.com/ib-77/checkchain/pkg/rop"
)

// Succeed, Fail and Fault build the three step outcomes.
func Succeed[T any](input T) rop.Result[T] {
	return rop.Success(input)
}

func Fail[T any](err error) rop.Result[T] {
	return rop.Fail[T](err)
}

func Fault[T any](err error) rop.Result[T] {
	return rop.Fault[T](err)
}

// Check runs predicate and maps true to Success and false to a failure carrying
// rop.ErrCheckFailed. A panic inside predicate is not recovered.
func Check(predicate func() bool) rop.Result[bool] {
	if predicate() {
		return Succeed(true)
	}
	return Fail[bool](rop.ErrCheckFailed)
}

// Evaluate runs a failable predicate. A returned error or a panic becomes a fault.
func Evaluate(predicate func() (bool, error)) (out rop.Result[bool]) {
	defer func() {
		if r := recover(); r != nil {
			out = Fault[bool](rop.RecoveredFault(r))
		}
	}()

	ok, err := predicate()
	if err != nil {
		return Fault[bool](err)
	}
	if !ok {
		return Fail[bool](rop.ErrCheckFailed)
	}
	return Succeed(true)
}

// Finally reduces input to a value with the handler matching its state.
func Finally[In, Out any](input rop.Result[In],
	onSuccess func(r In) Out,
	onFailure func(err error) Out,
	onFault func(err error) Out) Out {

	if input.IsSuccess() {
		return onSuccess(input.Result())
	} else if input.IsFault() {
		return onFault(input.Err())
	} else {
		return onFailure(input.Err())
	}
}
