package store

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
	prefix string
}

// Option configures a store through the functional options pattern.
type Option func(*options)

// WithLogger sets the logger that receives store events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPrefix sets the prefix of every Redis key. Defaults to "restmongo".
func WithPrefix(p string) Option {
	return func(o *options) {
		o.prefix = p
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		prefix: "restmongo",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
