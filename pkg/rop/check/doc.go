// Package check specialises the chain engine for input validation.
//
// On top of the engine it adds:
// - IfNullThenSkip: with null-skip enabled, a nil target bypasses the next check
// - IsNotNull, IsNotBlank, MatchRegex, Between/BetweenFunc, SizeBetween predicates
// - SetResultFactory with SetFailResultByFactory/SetFailResultCheckByFactory to
//   build fail results from reason strings
//
// Every predicate runs through AutoThen, so WithCatch decides whether a faulting
// predicate (nil text, bad pattern, incomparable bounds) fails the chain or aborts it.
//
//	res := check.New(Resp{Code: 500}, check.WithNullSkip(true)).
//		SetResultFactory(func(reason string) Resp { return Resp{Code: 400, Msg: reason} }).
//		SetFailResultCheckByFactory("name is blank").IsNotBlank(req.Name).
//		SetFailResultCheckByFactory("age out of range").Between(req.Age, 0, 150).
//		End(Resp{Code: 200})
package check
