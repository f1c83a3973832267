// Package rules is the rule-execution engine that drives a check.Chain from
// declarative metadata. It never changes chain semantics; it only calls the
// chain's public operations from inside BuildBy.
//
// Rules come from struct tags:
//
//	type Apple struct {
//		Name  string `check:"regex" pattern:"apple \\d+"`
//		Price int64  `check:"number_between" min:"0" max:"100" reason:"[{fieldName}] is too expensive"`
//	}
//
//	res := check.New(Resp{Msg: "unknown"}).
//		SetResultFactory(NewResp).
//		BuildBy(rules.For[Resp](rules.NewEngine(), apple)).
//		End(Resp{Code: 200})
//
// or from YAML/TOML rule files applied to map documents with ForDocument.
//
// Reasons may use {field}, {object}, {fieldName} and {fieldValue}; the engine's
// Formatter substitutes them before the reason reaches the chain's result factory.
// A reason of "_default" (or none) selects the kind's built-in reason.
package rules
