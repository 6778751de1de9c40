package domain

import (
	"go.uber.org/zap"
)

// WithSerializerFields restricts the serializer to the named fields. Reverse
// relations are only included when named here.
func WithSerializerFields(names ...string) SerializerOption {
	return func(so *SerializerOptions) {
		so.Fields = names
	}
}

// WithSerializerExclude removes the named fields from the serializer.
func WithSerializerExclude(names ...string) SerializerOption {
	return func(so *SerializerOptions) {
		so.Exclude = names
	}
}

// WithSerializerReadOnly marks the named fields as read-only. Names given
// by repeated calls add up.
func WithSerializerReadOnly(names ...string) SerializerOption {
	return func(so *SerializerOptions) {
		so.ReadOnly = append(so.ReadOnly, names...)
	}
}

// WithSerializerDecoder sets the decoder used to build instances from
// validated data.
func WithSerializerDecoder(d Decoder) SerializerOption {
	return func(so *SerializerOptions) {
		so.Decoder = d
	}
}

// WithSerializerLogger sets the logger used by the serializer.
func WithSerializerLogger(l *zap.Logger) SerializerOption {
	return func(so *SerializerOptions) {
		so.Logger = l
	}
}

// SerializerOption configures a model serializer through the functional
// options pattern.
type SerializerOption func(*SerializerOptions)

// SerializerOptions contains parameters for building a model serializer.
type SerializerOptions struct {
	// Fields restricts the serializer to the named fields.
	Fields []string
	// Exclude removes the named fields.
	Exclude []string
	// ReadOnly marks the named fields as read-only.
	ReadOnly []string
	// Decoder builds instances from validated data.
	Decoder Decoder
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// WithManagerRegistry sets the registry used by a meta manager.
func WithManagerRegistry(r Registry) MetaManagerOption {
	return func(mo *MetaManagerOptions) {
		mo.Registry = r
	}
}

// WithManagerIntrospector sets the introspector used by a meta manager.
func WithManagerIntrospector(i Introspector) MetaManagerOption {
	return func(mo *MetaManagerOptions) {
		mo.Introspector = i
	}
}

// WithManagerLogger sets the logger used by a meta manager.
func WithManagerLogger(l *zap.Logger) MetaManagerOption {
	return func(mo *MetaManagerOptions) {
		mo.Logger = l
	}
}

// MetaManagerOption configures a meta manager through the functional options
// pattern.
type MetaManagerOption func(*MetaManagerOptions)

// MetaManagerOptions contains the dependencies of a meta manager.
type MetaManagerOptions struct {
	Registry     Registry
	Introspector Introspector
	Logger       *zap.Logger
}
