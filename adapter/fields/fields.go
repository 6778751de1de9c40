// Package fields contains the serializer fields that convert single values
// between their external representation and the Go types stored in models.
//
// Every field implements [domain.SerializerField]. Validation failures are
// returned as [*domain.ValidationError] so serializers can attach them to the
// failing field.
package fields

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/vinicius-lino-figueiredo/restmongo/domain"
)

// Options contains the parameters shared by every field.
type Options struct {
	ReadOnly   bool
	Optional   bool
	AllowNull  bool
	AllowBlank bool
	HasDefault bool
	Default    any
	Choices    []string

	MaxLength     int
	MinValue      *int64
	MaxValue      *int64
	MaxDigits     int
	DecimalPlaces int
}

// Option configures a field through the functional options pattern.
type Option func(*Options)

// WithReadOnly makes the field ignored on input.
func WithReadOnly() Option {
	return func(o *Options) {
		o.ReadOnly = true
	}
}

// WithOptional makes the field not required on input.
func WithOptional() Option {
	return func(o *Options) {
		o.Optional = true
	}
}

// WithAllowNull accepts nil as input.
func WithAllowNull() Option {
	return func(o *Options) {
		o.AllowNull = true
	}
}

// WithAllowBlank accepts empty strings.
func WithAllowBlank() Option {
	return func(o *Options) {
		o.AllowBlank = true
	}
}

// WithDefault sets the value used when the input does not contain the
// field. A field with a default is never required.
func WithDefault(v any) Option {
	return func(o *Options) {
		o.HasDefault = true
		o.Default = v
	}
}

// WithChoices restricts the accepted values to the given representations.
func WithChoices(choices ...string) Option {
	return func(o *Options) {
		o.Choices = choices
	}
}

// WithMaxLength limits the number of characters of text fields.
func WithMaxLength(n int) Option {
	return func(o *Options) {
		o.MaxLength = n
	}
}

// WithMinValue sets the lowest value accepted by integer fields.
func WithMinValue(n int64) Option {
	return func(o *Options) {
		o.MinValue = &n
	}
}

// WithMaxValue sets the highest value accepted by integer fields.
func WithMaxValue(n int64) Option {
	return func(o *Options) {
		o.MaxValue = &n
	}
}

// WithDigits sets the precision of decimal fields.
func WithDigits(maxDigits, decimalPlaces int) Option {
	return func(o *Options) {
		o.MaxDigits = maxDigits
		o.DecimalPlaces = decimalPlaces
	}
}

type base struct {
	opts Options
}

func newBase(options []Option) base {
	var b base
	for _, option := range options {
		option(&b.opts)
	}
	return b
}

// ReadOnly implements [domain.SerializerField].
func (b *base) ReadOnly() bool {
	return b.opts.ReadOnly
}

// Required implements [domain.SerializerField].
func (b *base) Required() bool {
	return !b.opts.ReadOnly && !b.opts.HasDefault && !b.opts.Optional
}

// Options returns a copy of the field options.
func (b *base) Options() Options {
	return b.opts
}

// run handles missing and nil input, then converts data with the given
// field and checks the choices.
func (b *base) run(f domain.SerializerField, data any) (any, error) {
	if data == domain.Empty {
		switch {
		case b.opts.ReadOnly:
			return domain.Empty, nil
		case b.Required():
			return nil, invalid("This field is required.")
		case b.opts.HasDefault:
			return b.opts.Default, nil
		}
		return domain.Empty, nil
	}
	if isNil(data) {
		if !b.opts.AllowNull {
			return nil, invalid("This field may not be null.")
		}
		return nil, nil
	}

	value, err := f.ToInternalValue(data)
	if err != nil {
		return nil, err
	}

	if len(b.opts.Choices) > 0 {
		rep, err := f.ToRepresentation(value)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(b.opts.Choices, fmt.Sprint(rep)) {
			return nil, invalid("%q is not a valid choice.", fmt.Sprint(data))
		}
	}
	return value, nil
}

func invalid(format string, args ...any) *domain.ValidationError {
	return domain.NewValidationError(fmt.Sprintf(format, args...))
}

func unsupported(value any, kind string) error {
	return fmt.Errorf("%w: cannot represent %T as %s", domain.ErrUnsupportedValue, value, kind)
}

// typeName returns the name used in type errors, matching what JSON clients
// send.
func typeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case string:
		return "str"
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Deref follows pointers until a non-pointer value is found. It returns nil
// for nil pointers.
func Deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// Common carries the shared options and input handling for fields declared
// outside this package.
type Common struct {
	base
}

// NewCommon returns the shared part of a field.
func NewCommon(opts ...Option) Common {
	return Common{base: newBase(opts)}
}

// Run handles missing and nil input like the fields of this package do,
// then converts data with f.
func (c *Common) Run(f domain.SerializerField, data any) (any, error) {
	return c.run(f, data)
}
