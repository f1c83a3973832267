package check

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
)

var (
	// ErrIncomparable is reported when two operands have no common ordering.
	ErrIncomparable = errors.New("incomparable operands")
)

// Comparator orders two values: negative when a < b, zero when equal, positive when a > b.
type Comparator func(a, b any) int

// CompareBy adapts a typed comparator such as strings.Compare or cmp.Compare[int].
// Operands of another type make the comparator panic, which the chain treats as a fault.
func CompareBy[T any](compare func(a, b T) int) Comparator {
	return func(a, b any) int {
		x, ok := a.(T)
		if !ok {
			panic(fmt.Errorf("%w: %T is not %T", ErrIncomparable, a, x))
		}
		y, ok := b.(T)
		if !ok {
			panic(fmt.Errorf("%w: %T is not %T", ErrIncomparable, b, y))
		}
		return compare(x, y)
	}
}

// Compare orders a and b. Values with a Compare or Cmp method (time.Time,
// *big.Int, *big.Rat, *big.Float) use it; numbers of any width are compared by
// value and strings lexically. Pointers to those are dereferenced.
func Compare(a, b any) (int, error) {
	if n, ok, err := compareByMethod(a, b); ok || err != nil {
		return n, err
	}

	va, vb := indirect(reflect.ValueOf(a)), indirect(reflect.ValueOf(b))
	if !va.IsValid() || !vb.IsValid() {
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}

	if va.Kind() == reflect.String && vb.Kind() == reflect.String {
		x, y := va.String(), vb.String()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}

	if !isNumber(va) || !isNumber(vb) {
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}
	if isNaN(va) || isNaN(vb) {
		return 0, fmt.Errorf("%w: NaN", ErrIncomparable)
	}
	if isInf(va) || isInf(vb) {
		return compareFloats(toFloat(va), toFloat(vb)), nil
	}
	return toRat(va).Cmp(toRat(vb)), nil
}

func compareByMethod(a, b any) (int, bool, error) {
	va := reflect.ValueOf(a)
	if !va.IsValid() || b == nil {
		return 0, false, nil
	}
	for _, name := range []string{"Compare", "Cmp"} {
		m := va.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Int {
			continue
		}
		vb := reflect.ValueOf(b)
		if !vb.Type().AssignableTo(mt.In(0)) {
			return 0, false, fmt.Errorf("%w: %T.%s does not accept %T", ErrIncomparable, a, name, b)
		}
		if vb.Kind() == reflect.Ptr && vb.IsNil() {
			return 0, false, fmt.Errorf("%w: nil %T", ErrIncomparable, b)
		}
		return int(m.Call([]reflect.Value{vb})[0].Int()), true, nil
	}
	return 0, false, nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func isNaN(v reflect.Value) bool {
	return isFloat(v) && math.IsNaN(v.Float())
}

func isInf(v reflect.Value) bool {
	return isFloat(v) && math.IsInf(v.Float(), 0)
}

// toRat converts a finite number exactly.
func toRat(v reflect.Value) *big.Rat {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Rat).SetInt64(v.Int())
	case reflect.Float32, reflect.Float64:
		return new(big.Rat).SetFloat64(v.Float())
	default:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(v.Uint()))
	}
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return float64(v.Uint())
	}
}

func compareFloats(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
