package rules

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRule is returned when a rule's parameters cannot be used.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrNilWithoutNullSkip is the fault raised for a nil field when null-skip is off.
	ErrNilWithoutNullSkip = errors.New("nil value without null-skip")
)

// Kind names a validation requirement.
type Kind string

const (
	KindNotNull       Kind = "not_null"
	KindNotBlank      Kind = "not_blank"
	KindRegex         Kind = "regex"
	KindNumberBetween Kind = "number_between"
	KindSizeBetween   Kind = "size_between"
)

// DefaultReason asks the engine for the kind's built-in reason.
const DefaultReason = "_default"

var kinds = map[Kind]struct{}{
	KindNotNull:       {},
	KindNotBlank:      {},
	KindRegex:         {},
	KindNumberBetween: {},
	KindSizeBetween:   {},
}

// ParseKind accepts the canonical names plus the dash-less forms used in struct tags.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "notnull":
		k = KindNotNull
	case "notblank":
		k = KindNotBlank
	case "between", "numberbetween":
		k = KindNumberBetween
	case "size", "sizebetween":
		k = KindSizeBetween
	}
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, s)
	}
	return k, nil
}

// Rule is one declarative requirement on a field.
// Min and Max are inclusive decimal strings; empty means unbounded.
type Rule struct {
	Kind    Kind   `yaml:"kind" toml:"kind" json:"kind"`
	Pattern string `yaml:"pattern,omitempty" toml:"pattern,omitempty" json:"pattern,omitempty"`
	Min     string `yaml:"min,omitempty" toml:"min,omitempty" json:"min,omitempty"`
	Max     string `yaml:"max,omitempty" toml:"max,omitempty" json:"max,omitempty"`
	Reason  string `yaml:"reason,omitempty" toml:"reason,omitempty" json:"reason,omitempty"`
}

// ReasonOr returns the rule's reason, or def when it is empty or DefaultReason.
func (r Rule) ReasonOr(def string) string {
	if r.Reason == "" || r.Reason == DefaultReason {
		return def
	}
	return r.Reason
}

// Validate checks the rule's parameters.
func (r Rule) Validate() error {
	if _, ok := kinds[r.Kind]; !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}
	switch r.Kind {
	case KindRegex:
		if r.Pattern == "" {
			return fmt.Errorf("%w: regex rule without pattern", ErrInvalidRule)
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("%w: pattern %q: %v", ErrInvalidRule, r.Pattern, err)
		}
	case KindNumberBetween:
		if _, _, err := r.numberBounds(); err != nil {
			return err
		}
	case KindSizeBetween:
		if _, _, err := r.sizeBounds(); err != nil {
			return err
		}
	}
	return nil
}

// numberBounds parses Min and Max; a nil bound is unbounded.
func (r Rule) numberBounds() (lo, hi *big.Rat, err error) {
	if lo, err = parseDecimal(r.Min); err != nil {
		return nil, nil, fmt.Errorf("%w: min: %v", ErrInvalidRule, err)
	}
	if hi, err = parseDecimal(r.Max); err != nil {
		return nil, nil, fmt.Errorf("%w: max: %v", ErrInvalidRule, err)
	}
	return lo, hi, nil
}

func (r Rule) sizeBounds() (lo, hi int, err error) {
	lo, hi = 0, math.MaxInt
	if r.Min != "" {
		if lo, err = strconv.Atoi(strings.TrimSpace(r.Min)); err != nil {
			return 0, 0, fmt.Errorf("%w: min: %v", ErrInvalidRule, err)
		}
	}
	if r.Max != "" {
		if hi, err = strconv.Atoi(strings.TrimSpace(r.Max)); err != nil {
			return 0, 0, fmt.Errorf("%w: max: %v", ErrInvalidRule, err)
		}
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: size min %d is greater than max %d", ErrInvalidRule, lo, hi)
	}
	return lo, hi, nil
}

var decimalPattern = regexp.MustCompile(`^[+-]?(0|[1-9]\d*)(\.\d+)?$`)

func parseDecimal(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !decimalPattern.MatchString(s) {
		return nil, fmt.Errorf("%q is not a decimal number", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%q is not a decimal number", s)
	}
	return r, nil
}

// FieldRules binds rules to a field name. Dotted names address nested maps.
type FieldRules struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Rules []Rule `yaml:"rules" toml:"rules" json:"rules"`
}

// RuleSet is the file form of a validation: chain settings plus field rules.
type RuleSet struct {
	Name     string       `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	NullSkip bool         `yaml:"null_skip,omitempty" toml:"null_skip,omitempty" json:"null_skip,omitempty"`
	UseCatch bool         `yaml:"use_catch,omitempty" toml:"use_catch,omitempty" json:"use_catch,omitempty"`
	Fields   []FieldRules `yaml:"fields" toml:"fields" json:"fields"`
}

// Validate checks every rule and normalises kind spellings.
func (s *RuleSet) Validate() error {
	var errs []error
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("%w: field #%d has no name", ErrInvalidRule, i))
			continue
		}
		for j := range f.Rules {
			k, err := ParseKind(string(f.Rules[j].Kind))
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s rule #%d: %w", f.Name, j, err))
				continue
			}
			f.Rules[j].Kind = k
			if err := f.Rules[j].Validate(); err != nil {
				errs = append(errs, fmt.Errorf("field %s rule #%d: %w", f.Name, j, err))
			}
		}
	}
	return errors.Join(errs...)
}
