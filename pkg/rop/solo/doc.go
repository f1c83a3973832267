// Package solo contains single-value, synchronous primitives that produce and
// consume rop.Result values. They are the building blocks the chain engine uses
// to turn a predicate into a typed step outcome.
//
// Highlights:
// - Succeed/Fail/Fault: construct Result[T]
// - Check: run a plain boolean predicate (panics propagate)
// - Evaluate: run a failable predicate, converting errors and panics to faults
// - Finally: reduce a Result to a concrete value via success/failure/fault handlers
package solo
