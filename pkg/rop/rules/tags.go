package rules

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

// Struct tag keys read by Plan.
const (
	TagCheck   = "check"
	TagPattern = "pattern"
	TagMin     = "min"
	TagMax     = "max"
	TagReason  = "reason"
)

// Plan is the list of rules found on a struct type.
type Plan struct {
	fields []plannedField
}

type plannedField struct {
	index []int
	field reflect.StructField
	rules []Rule
}

func (f plannedField) info(target any) FieldInfo {
	info := FieldInfo{
		Object: target,
		Field:  fmt.Sprintf("%s %s", f.field.Name, f.field.Type),
		Name:   f.field.Name,
	}
	// a nil embedded pointer on the path leaves the value nil
	if v, err := reflect.Indirect(reflect.ValueOf(target)).FieldByIndexErr(f.index); err == nil {
		info.Value = v.Interface()
	}
	return info
}

// Len returns the number of planned fields.
func (p Plan) Len() int {
	return len(p.fields)
}

// Plan reads `check` tags from target, a struct or a non-nil pointer to one.
//
//	type Apple struct {
//		Name  string `check:"regex" pattern:"apple \\d+"`
//		Price int64  `check:"number_between" min:"0" max:"100" reason:"[{fieldName}] too expensive"`
//	}
//
// Several kinds may be listed comma separated; they share pattern, min, max and reason.
func (e *Engine) Plan(target any) (Plan, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return Plan{}, fmt.Errorf("%w: nil target", ErrInvalidRule)
	}
	rt := reflect.Indirect(rv).Type()
	if rt.Kind() != reflect.Struct {
		return Plan{}, fmt.Errorf("%w: %T is not a struct", ErrInvalidRule, target)
	}

	p := Plan{}
	var errs []error
	for _, sf := range reflect.VisibleFields(rt) {
		tag, ok := sf.Tag.Lookup(TagCheck)
		if !ok || tag == "" || tag == "-" {
			continue
		}
		if !sf.IsExported() {
			errs = append(errs, fmt.Errorf("%w: field %s.%s is not exported", ErrInvalidRule, rt.Name(), sf.Name))
			continue
		}

		var fieldRules []Rule
		for _, name := range strings.Split(tag, ",") {
			kind, err := ParseKind(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
				continue
			}
			r := Rule{
				Kind:    kind,
				Pattern: sf.Tag.Get(TagPattern),
				Min:     sf.Tag.Get(TagMin),
				Max:     sf.Tag.Get(TagMax),
				Reason:  sf.Tag.Get(TagReason),
			}
			if err := r.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
				continue
			}
			if err := supports(kind, sf.Type); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
				continue
			}
			fieldRules = append(fieldRules, r)
		}
		if len(fieldRules) > 0 {
			p.fields = append(p.fields, plannedField{index: sf.Index, field: sf, rules: fieldRules})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Plan{}, err
	}
	return p, nil
}

var (
	bigIntType   = reflect.TypeOf((*big.Int)(nil))
	bigRatType   = reflect.TypeOf((*big.Rat)(nil))
	bigFloatType = reflect.TypeOf((*big.Float)(nil))
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// supports reports whether a field of type t can carry kind.
func supports(kind Kind, t reflect.Type) error {
	if kind == KindNotNull {
		return nil
	}
	if kind == KindNumberBetween && (t == bigIntType || t == bigRatType || t == bigFloatType) {
		return nil
	}
	base := t
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	ok := false
	switch kind {
	case KindNotBlank:
		ok = base.Kind() == reflect.String || t.Implements(stringerType)
	case KindRegex:
		ok = base.Kind() == reflect.String
	case KindNumberBetween:
		switch base.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			ok = true
		}
	case KindSizeBetween:
		switch base.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s cannot be used on %s", ErrInvalidRule, kind, t)
	}
	return nil
}
