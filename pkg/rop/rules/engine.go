package rules

import (
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strings"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/check"
)

// Engine turns rule metadata into calls on a check.Chain.
// It is safe to share between goroutines once configured; chains are not.
type Engine struct {
	formatter *Formatter
	ignored   map[Kind]bool
	logger    *slog.Logger
}

type EngineOption func(*Engine)

func WithFormatter(f *Formatter) EngineOption {
	return func(e *Engine) {
		e.formatter = f
	}
}

func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		formatter: NewFormatter(),
		ignored:   make(map[Kind]bool),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ignore disables rules of the given kinds.
func (e *Engine) Ignore(kinds ...Kind) *Engine {
	for _, k := range kinds {
		e.ignored[k] = true
	}
	return e
}

// For returns a BuildBy callback validating the tagged fields of every target.
// A target whose tags cannot be planned faults the chain through AutoThen.
func For[R any](e *Engine, targets ...any) func(*check.Chain[R]) {
	return func(c *check.Chain[R]) {
		for _, target := range targets {
			p, err := e.Plan(target)
			if err != nil {
				c.AutoThen(func() (bool, error) { return false, err })
				continue
			}
			for _, f := range p.fields {
				applyField(e, c, f.info(target), f.rules)
			}
		}
	}
}

// ForDocument returns a BuildBy callback validating doc against set.
func ForDocument[R any](e *Engine, set *RuleSet, doc map[string]any) func(*check.Chain[R]) {
	return func(c *check.Chain[R]) {
		object := any(doc)
		if set.Name != "" {
			object = set.Name
		}
		for _, f := range set.Fields {
			info := FieldInfo{
				Object: object,
				Field:  f.Name,
				Name:   f.Name,
				Value:  Lookup(doc, f.Name),
			}
			applyField(e, c, info, f.Rules)
		}
	}
}

// Lookup resolves a dotted path in nested maps; missing keys yield nil.
func Lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]any:
			cur = m[part]
		case map[any]any:
			cur = m[part]
		default:
			return nil
		}
	}
	return cur
}

func applyField[R any](e *Engine, c *check.Chain[R], info FieldInfo, rules []Rule) {
	for _, r := range rules {
		if e.ignored[r.Kind] {
			continue
		}
		e.logger.Debug("applying rule", "field", info.Name, "kind", string(r.Kind))
		applyRule(e, c, info, r)
	}
}

func applyRule[R any](e *Engine, c *check.Chain[R], info FieldInfo, r Rule) {
	if r.Kind != KindNotNull && rop.IsNil(info.Value) {
		if c.IsNullSkip() {
			return
		}
		c.AutoThen(func() (bool, error) {
			return false, fmt.Errorf("%w: field %s", ErrNilWithoutNullSkip, info.Name)
		})
		return
	}

	// reasons only reach the chain through its result factory
	var reason string
	if c.HasResultFactory() {
		var err error
		if reason, err = e.reason(r, info); err != nil {
			c.AutoThen(func() (bool, error) { return false, err })
			return
		}
	}

	switch r.Kind {
	case KindNotNull:
		c.SetFailResultCheckByFactory(reason).IsNotNull(info.Value)
	case KindNotBlank:
		c.SetFailResultCheckByFactory(reason).IsNotBlank(info.Value)
	case KindRegex:
		c.SetFailResultCheckByFactory(reason).MatchRegex(info.Value, r.Pattern)
	case KindNumberBetween:
		lo, hi, err := r.numberBounds()
		value, convErr := toRat(info.Value)
		if err == nil {
			err = convErr
		}
		if err != nil {
			c.AutoThen(func() (bool, error) { return false, fmt.Errorf("field %s: %w", info.Name, err) })
			return
		}
		if lo == nil {
			lo = value
		}
		if hi == nil {
			hi = value
		}
		c.SetFailResultCheckByFactory(reason).Between(value, lo, hi)
	case KindSizeBetween:
		lo, hi, err := r.sizeBounds()
		if err != nil {
			c.AutoThen(func() (bool, error) { return false, fmt.Errorf("field %s: %w", info.Name, err) })
			return
		}
		c.SetFailResultCheckByFactory(reason).SizeBetween(info.Value, lo, hi)
	}
}

// reason formats the rule's reason for info. A panicking fmt.Stringer on the
// field value is returned as a fault.
func (e *Engine) reason(r Rule, info FieldInfo) (reason string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("field %s: format reason: %w", info.Name, rop.RecoveredFault(p))
		}
	}()
	return e.formatter.Format(r.ReasonOr(defaultReason(r)), info), nil
}

// toRat converts numbers, big numbers and decimal strings exactly.
func toRat(v any) (*big.Rat, error) {
	switch x := v.(type) {
	case *big.Rat:
		return new(big.Rat).Set(x), nil
	case *big.Int:
		return new(big.Rat).SetInt(x), nil
	case *big.Float:
		r, _ := x.Rat(nil)
		if r == nil {
			return nil, fmt.Errorf("%w: %v is not finite", check.ErrUnsupportedType, x)
		}
		return r, nil
	case string:
		r, err := parseDecimal(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", check.ErrUnsupportedType, err)
		}
		if r == nil {
			return nil, fmt.Errorf("%w: empty number", check.ErrUnsupportedType)
		}
		return r, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Rat).SetInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		r := new(big.Rat)
		if r.SetFloat64(rv.Float()) == nil {
			return nil, fmt.Errorf("%w: %v is not finite", check.ErrUnsupportedType, rv.Float())
		}
		return r, nil
	case reflect.String:
		return toRat(rv.String())
	}
	return nil, fmt.Errorf("%w: %T is not a number", check.ErrUnsupportedType, v)
}
