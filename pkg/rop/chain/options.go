package chain

import "log/slog"

// Options configures a chain at construction time.
type Options struct {
	// UseCatch selects the Contain policy for AutoThen.
	UseCatch bool
	// Logger receives contained faults. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option mutates Options; see WithCatch and WithLogger.
type Option func(*Options)

// WithCatch sets the fault policy used by AutoThen.
func WithCatch(useCatch bool) Option {
	return func(o *Options) {
		o.UseCatch = useCatch
	}
}

// WithLogger sets the logger contained faults are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func applyOptions(opts []Option) Options {
	o := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
