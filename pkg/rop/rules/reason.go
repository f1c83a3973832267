package rules

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

// Placeholder tokens understood by the default Formatter.
const (
	TokenField      = "{field}"
	TokenObject     = "{object}"
	TokenFieldName  = "{fieldName}"
	TokenFieldValue = "{fieldValue}"
)

// FieldInfo describes the field a reason is formatted for.
type FieldInfo struct {
	Object any
	Field  string
	Name   string
	Value  any
}

// Formatter replaces placeholder tokens in reasons.
type Formatter struct {
	tokens []string
	values map[string]func(FieldInfo) string
}

// NewFormatter returns a Formatter knowing {field}, {object}, {fieldName} and {fieldValue}.
func NewFormatter() *Formatter {
	f := &Formatter{values: make(map[string]func(FieldInfo) string)}
	f.With(TokenField, func(fi FieldInfo) string { return fi.Field })
	f.With(TokenObject, func(fi FieldInfo) string { return display(fi.Object) })
	f.With(TokenFieldName, func(fi FieldInfo) string { return fi.Name })
	f.With(TokenFieldValue, func(fi FieldInfo) string { return display(fi.Value) })
	return f
}

// With registers or replaces a token.
func (f *Formatter) With(token string, value func(FieldInfo) string) *Formatter {
	if _, ok := f.values[token]; !ok {
		f.tokens = append(f.tokens, token)
	}
	f.values[token] = value
	return f
}

// Format substitutes every known token in reason.
func (f *Formatter) Format(reason string, info FieldInfo) string {
	if !strings.Contains(reason, "{") {
		return reason
	}
	pairs := make([]string, 0, 2*len(f.tokens))
	for _, token := range f.tokens {
		if strings.Contains(reason, token) {
			pairs = append(pairs, token, f.values[token](info))
		}
	}
	if len(pairs) == 0 {
		return reason
	}
	return strings.NewReplacer(pairs...).Replace(reason)
}

// display renders a value for {fieldValue} and {object}. Nil pointers print as
// null before any String method is consulted.
func display(v any) string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return "null"
	}
	switch x := v.(type) {
	case *big.Rat:
		return x.RatString()
	case fmt.Stringer:
		return x.String()
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface())
}

func defaultReason(r Rule) string {
	switch r.Kind {
	case KindNotNull:
		return "[{fieldName}] must not be null"
	case KindNotBlank:
		return "[{fieldName}] must not be blank"
	case KindRegex:
		return fmt.Sprintf("[{fieldName}] must match %s, got >{fieldValue}<", r.Pattern)
	case KindNumberBetween:
		return fmt.Sprintf("[{fieldName}] must be between %s and %s, got >{fieldValue}<",
			boundText(r.Min, "-inf"), boundText(r.Max, "+inf"))
	case KindSizeBetween:
		return fmt.Sprintf("[{fieldName}] length must be between %s and %s, got {fieldValue}",
			boundText(r.Min, "0"), boundText(r.Max, "unbounded"))
	}
	return "[{fieldName}] is invalid"
}

func boundText(s, unbounded string) string {
	if strings.TrimSpace(s) == "" {
		return unbounded
	}
	return strings.TrimSpace(s)
}
