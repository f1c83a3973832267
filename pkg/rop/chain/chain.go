package chain

// Chain is the plain chain builder over a result type R.
type Chain[R any] struct {
	Base[R, *Chain[R]]
}

// New creates a healthy chain that yields failResult unless it ends healthy.
func New[R any](failResult R, opts ...Option) *Chain[R] {
	c := &Chain[R]{}
	c.Base = NewBase[R](c, failResult, opts...)
	return c
}
