// Package chain provides the fluent, short-circuiting chain engine used to
// compose conditional checks and resolve them to a success or failure value.
//
// A chain keeps three pieces of state: a proceed flag that stays false once a
// check fails, a one-shot skip flag that bypasses exactly one following step,
// and the fail result returned when the chain ends unhealthy.
//
// Key operations:
// - Then/ThenWith: evaluate a predicate unless the chain failed or a skip is pending
// - CatchThen: like Then, but errors and panics are logged and recorded as failure
// - AutoThen: CatchThen or TryThen depending on the chain's catch policy
// - TryThen/Step: escaping fault policy and the typed-outcome step behind all of them
// - SetFailResultCheck: skip-aware, health-aware fail result update
// - BuildBy: hand the chain to a collaborator such as a rule engine
// - End/EndFunc/Finish: project the final state onto a result
//
// Base[R, S] carries the state machine and is embedded by concrete builders
// (Chain[R] here, check.Chain[R] for validation); S is the concrete builder type
// returned from every fluent call.
//
// A chain is owned by one goroutine for one validation pass and must not be
// shared or reused.
package chain
