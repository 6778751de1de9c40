package httpapi

import (
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	ids        domain.IDGenerator
	serializer []domain.SerializerOption
}

// Option configures a resource through the functional options pattern.
type Option func(*options)

// WithLogger sets the logger of the resource and of its serializer.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIDGenerator sets the generator of ObjectID primary keys.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithSerializerOptions sets the options of the model serializer.
func WithSerializerOptions(opts ...domain.SerializerOption) Option {
	return func(o *options) {
		o.serializer = append(o.serializer, opts...)
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
