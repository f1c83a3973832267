package chain

import (
	"log/slog"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/solo"
)

// Predicate is a failable boolean check.
type Predicate = func() (bool, error)

// Policy decides what happens to an evaluation fault.
type Policy int

const (
	// Contain logs the fault and records it as a failed check.
	Contain Policy = iota
	// Escape aborts the chain; the fault surfaces from Err, Finish and End.
	Escape
)

// String returns the policy name used in logs.
func (p Policy) String() string {
	switch p {
	case Contain:
		return "contain"
	case Escape:
		return "escape"
	default:
		return "unknown"
	}
}

// Base is the chain state machine. S is the concrete builder returned by every
// fluent method; embedders construct it with NewBase passing themselves as self.
type Base[R any, S any] struct {
	self       S
	proceed    bool
	skipNext   bool
	useCatch   bool
	failResult R
	fault      error
	logger     *slog.Logger
}

// NewBase returns a healthy state with no pending skip.
func NewBase[R any, S any](self S, failResult R, opts ...Option) Base[R, S] {
	o := applyOptions(opts)
	return Base[R, S]{
		self:       self,
		proceed:    true,
		useCatch:   o.UseCatch,
		failResult: failResult,
		logger:     o.Logger,
	}
}

// IsProceed reports whether every evaluated check so far has passed.
func (b *Base[R, S]) IsProceed() bool {
	return b.proceed
}

// SetProceed forces the health flag, ignoring any pending skip.
func (b *Base[R, S]) SetProceed(proceed bool) S {
	if b.fault == nil {
		b.proceed = proceed
	}
	return b.self
}

// SetProceedFunc computes the health flag, ignoring any pending skip.
func (b *Base[R, S]) SetProceedFunc(proceed func() bool) S {
	if b.fault != nil {
		return b.self
	}
	return b.SetProceed(proceed())
}

// IsSkipNext reports whether the next step will be bypassed.
func (b *Base[R, S]) IsSkipNext() bool {
	return b.skipNext
}

// SetSkipNext arms or clears the one-shot skip. End and SetFailResult are never skipped.
func (b *Base[R, S]) SetSkipNext(skipNext bool) S {
	if b.fault == nil {
		b.skipNext = skipNext
	}
	return b.self
}

// SkipNext arms the one-shot skip.
func (b *Base[R, S]) SkipNext() S {
	return b.SetSkipNext(true)
}

// IsUseCatch reports whether AutoThen contains faults instead of escaping them.
func (b *Base[R, S]) IsUseCatch() bool {
	return b.useCatch
}

// SetUseCatch selects the policy AutoThen uses for later steps.
func (b *Base[R, S]) SetUseCatch(useCatch bool) S {
	b.useCatch = useCatch
	return b.self
}

// Logger returns the logger contained faults are written to.
func (b *Base[R, S]) Logger() *slog.Logger {
	return b.logger
}

// Step is the single transition every check goes through. eval runs only when
// the chain is healthy and no skip is pending; a pending skip is always consumed.
func (b *Base[R, S]) Step(eval func() rop.Result[bool], policy Policy) S {
	if b.fault != nil {
		return b.self
	}
	if !b.proceed || b.skipNext {
		b.skipNext = false
		return b.self
	}

	out := eval()
	switch {
	case out.IsSuccess():
		b.proceed = out.Result()
	case out.IsFault():
		b.proceed = false
		if policy == Escape {
			b.fault = rop.AsFault(out.Err())
			return b.self
		}
		b.logger.Warn("chain step fault contained", "error", out.Err())
	default:
		b.proceed = false
	}
	return b.self
}

// Then evaluates predicate unless the chain already failed or a skip is pending.
func (b *Base[R, S]) Then(predicate func() bool) S {
	return b.Step(func() rop.Result[bool] {
		return solo.Check(predicate)
	}, Escape)
}

// ThenWith sets failResult through SetFailResultCheck, then runs Then.
func (b *Base[R, S]) ThenWith(failResult R, predicate func() bool) S {
	b.SetFailResultCheck(failResult)
	return b.Then(predicate)
}

// CatchThen is Then for failable predicates: errors and panics are logged and
// count as a failed check, so the chain still reaches its terminal state.
func (b *Base[R, S]) CatchThen(predicate Predicate) S {
	return b.Step(func() rop.Result[bool] {
		return solo.Evaluate(predicate)
	}, Contain)
}

// CatchThenWith sets failResult through SetFailResultCheck, then runs CatchThen.
func (b *Base[R, S]) CatchThenWith(failResult R, predicate Predicate) S {
	b.SetFailResultCheck(failResult)
	return b.CatchThen(predicate)
}

// TryThen is Then for failable predicates whose faults abort the chain.
func (b *Base[R, S]) TryThen(predicate Predicate) S {
	return b.Step(func() rop.Result[bool] {
		return solo.Evaluate(predicate)
	}, Escape)
}

// AutoThen dispatches to CatchThen when the chain uses catch, TryThen otherwise.
func (b *Base[R, S]) AutoThen(predicate Predicate) S {
	if b.useCatch {
		return b.CatchThen(predicate)
	}
	return b.TryThen(predicate)
}

// AutoThenWith sets failResult through SetFailResultCheck, then runs AutoThen.
func (b *Base[R, S]) AutoThenWith(failResult R, predicate Predicate) S {
	b.SetFailResultCheck(failResult)
	return b.AutoThen(predicate)
}

// FailResult returns the value End yields for an unhealthy chain.
func (b *Base[R, S]) FailResult() R {
	return b.failResult
}

// SetFailResult overwrites the fail result unconditionally.
func (b *Base[R, S]) SetFailResult(failResult R) S {
	if b.fault == nil {
		b.failResult = failResult
	}
	return b.self
}

// SetFailResultCheck is the gated fail result update:
// an unhealthy chain is (re)forced to not proceed and keeps its fail result,
// a pending skip is passed on instead of writing, otherwise the value is stored.
func (b *Base[R, S]) SetFailResultCheck(failResult R) S {
	if b.proceed {
		if b.skipNext {
			return b.SkipNext()
		}
		return b.SetFailResult(failResult)
	}
	return b.SetProceed(false)
}

// BuildBy hands the chain to fn, typically a rule engine driving the public operations.
func (b *Base[R, S]) BuildBy(fn func(S)) S {
	if fn != nil {
		fn(b.self)
	}
	return b.self
}

// Err returns the fault that aborted the chain, if any.
func (b *Base[R, S]) Err() error {
	return b.fault
}

// Outcome is the typed view of the current state.
func (b *Base[R, S]) Outcome() rop.Result[bool] {
	switch {
	case b.fault != nil:
		return rop.Fault[bool](b.fault)
	case b.proceed:
		return rop.Success(true)
	default:
		return rop.Fail[bool](rop.ErrCheckFailed)
	}
}

// End returns success when the chain is healthy and the stored fail result
// otherwise. It panics with the fault of an aborted chain.
func (b *Base[R, S]) End(success R) R {
	return b.EndFunc(func() R { return success })
}

// EndFunc is End with a lazily computed success value.
func (b *Base[R, S]) EndFunc(success func() R) R {
	if b.fault != nil {
		panic(b.fault)
	}
	if b.proceed {
		return success()
	}
	return b.failResult
}

// Finish is End that reports an aborted chain as an error instead of panicking.
func (b *Base[R, S]) Finish(success R) (R, error) {
	if b.fault != nil {
		var zero R
		return zero, b.fault
	}
	return b.End(success), nil
}
