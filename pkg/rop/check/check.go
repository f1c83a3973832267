package check

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/chain"
)

var (
	// ErrNilTarget is reported when a nil value reaches a predicate that needs one.
	ErrNilTarget = errors.New("nil target")
	// ErrUnsupportedType is reported when a predicate cannot read the target's type.
	ErrUnsupportedType = errors.New("unsupported target type")
)

// Chain is the validation chain: the chain engine plus null-aware skipping,
// common predicates and an optional fail result factory.
//
// A Chain belongs to a single validation pass and must not be used from more
// than one goroutine.
type Chain[R any] struct {
	chain.Base[R, *Chain[R]]
	nullSkip      bool
	resultFactory func(reason string) R
}

type config struct {
	nullSkip bool
	base     []chain.Option
}

// Option configures a Chain at construction time.
type Option func(*config)

// WithNullSkip makes a nil target skip the check that follows it instead of failing.
func WithNullSkip(nullSkip bool) Option {
	return func(c *config) {
		c.nullSkip = nullSkip
	}
}

// WithCatch makes predicate faults count as failed checks instead of aborting.
func WithCatch(useCatch bool) Option {
	return func(c *config) {
		c.base = append(c.base, chain.WithCatch(useCatch))
	}
}

// WithLogger sets the logger contained faults are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.base = append(c.base, chain.WithLogger(logger))
	}
}

// New creates a healthy validation chain that yields failResult unless it ends healthy.
func New[R any](failResult R, opts ...Option) *Chain[R] {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &Chain[R]{nullSkip: cfg.nullSkip}
	c.Base = chain.NewBase[R](c, failResult, cfg.base...)
	return c
}

// IsNullSkip reports whether nil targets skip their check.
func (c *Chain[R]) IsNullSkip() bool {
	return c.nullSkip
}

func (c *Chain[R]) SetNullSkip(nullSkip bool) *Chain[R] {
	c.nullSkip = nullSkip
	return c
}

// SetResultFactory installs the strategy that turns a reason into a fail result.
func (c *Chain[R]) SetResultFactory(factory func(reason string) R) *Chain[R] {
	c.resultFactory = factory
	return c
}

// HasResultFactory reports whether reasons can become fail results.
func (c *Chain[R]) HasResultFactory() bool {
	return c.resultFactory != nil
}

// SetFailResultByFactory stores factory(reason) as the fail result; no-op without a factory.
func (c *Chain[R]) SetFailResultByFactory(reason string) *Chain[R] {
	if c.resultFactory == nil {
		return c
	}
	return c.SetFailResult(c.resultFactory(reason))
}

// SetFailResultCheckByFactory routes factory(reason) through SetFailResultCheck;
// no-op without a factory.
func (c *Chain[R]) SetFailResultCheckByFactory(reason string) *Chain[R] {
	if c.resultFactory == nil {
		return c
	}
	return c.SetFailResultCheck(c.resultFactory(reason))
}

// IfNullThenSkip arms the one-shot skip when null-skip is on and target is nil.
func (c *Chain[R]) IfNullThenSkip(target any) *Chain[R] {
	if c.nullSkip && rop.IsNil(target) {
		return c.SkipNext()
	}
	return c
}

// IsNotNull requires target to be present. It ignores null-skip on purpose.
func (c *Chain[R]) IsNotNull(target any) *Chain[R] {
	return c.AutoThen(func() (bool, error) {
		return !rop.IsNil(target), nil
	})
}

// IsNotBlank requires at least one non-whitespace rune. No-break spaces count as content.
func (c *Chain[R]) IsNotBlank(text any) *Chain[R] {
	return c.IfNullThenSkip(text).AutoThen(func() (bool, error) {
		s, err := textOf(text)
		if err != nil {
			return false, err
		}
		for _, r := range s {
			if !isWhitespace(r) {
				return true, nil
			}
		}
		return false, nil
	})
}

// isWhitespace is unicode.IsSpace without the no-break spaces and NEL, plus
// the information separators U+001C..U+001F.
func isWhitespace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f', '\u0085':
		return false
	case '\u001c', '\u001d', '\u001e', '\u001f':
		return true
	}
	return unicode.IsSpace(r)
}

// Between requires left <= target <= right using Compare.
// Reversed bounds are not an error; they simply never match.
func (c *Chain[R]) Between(target, left, right any) *Chain[R] {
	return c.IfNullThenSkip(target).AutoThen(func() (bool, error) {
		return between(target, left, right, Compare)
	})
}

// BetweenFunc is Between with a caller supplied ordering.
func (c *Chain[R]) BetweenFunc(target, left, right any, comparator Comparator) *Chain[R] {
	return c.IfNullThenSkip(target).AutoThen(func() (bool, error) {
		return between(target, left, right, func(a, b any) (int, error) {
			return comparator(a, b), nil
		})
	})
}

// MatchRegex requires the whole of target to match pattern.
func (c *Chain[R]) MatchRegex(target any, pattern string) *Chain[R] {
	return c.IfNullThenSkip(target).AutoThen(func() (bool, error) {
		s, err := textOf(target)
		if err != nil {
			return false, err
		}
		re, err := anchoredRegex(pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(s), nil
	})
}

// anchoredPatterns caches compiled ^(?:pattern)$ expressions by pattern.
// Chains validated concurrently share it.
var anchoredPatterns sync.Map

func anchoredRegex(pattern string) (*regexp.Regexp, error) {
	if re, ok := anchoredPatterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	actual, _ := anchoredPatterns.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// SizeBetween requires the rune length of a string, or the length of a slice,
// array or map, to lie within [left, right].
func (c *Chain[R]) SizeBetween(target any, left, right int) *Chain[R] {
	return c.IfNullThenSkip(target).AutoThen(func() (bool, error) {
		n, err := Size(target)
		if err != nil {
			return false, err
		}
		return n >= left && n <= right, nil
	})
}

// Size returns the rune length of strings and the length of slices, arrays and maps.
func Size(target any) (int, error) {
	if rop.IsNil(target) {
		return 0, ErrNilTarget
	}
	switch v := target.(type) {
	case string:
		return utf8.RuneCountInString(v), nil
	case *string:
		return utf8.RuneCountInString(*v), nil
	}
	rv := reflect.Indirect(reflect.ValueOf(target))
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), nil
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedType, target)
}

func between(target, left, right any, compare func(a, b any) (int, error)) (bool, error) {
	lo, err := compare(target, left)
	if err != nil {
		return false, err
	}
	hi, err := compare(target, right)
	if err != nil {
		return false, err
	}
	return lo >= 0 && hi <= 0, nil
}

func textOf(target any) (string, error) {
	if rop.IsNil(target) {
		return "", ErrNilTarget
	}
	switch v := target.(type) {
	case string:
		return v, nil
	case *string:
		return *v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	rv := reflect.Indirect(reflect.ValueOf(target))
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedType, target)
}
