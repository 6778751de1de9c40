package serializer

import (
	"reflect"
	"strconv"

	"github.com/vinicius-lino-figueiredo/restmongo/adapter/fields"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
)

// EmbeddedModelField converts a nested model instance from and to a map,
// using a serializer of the nested model.
type EmbeddedModelField struct {
	fields.Common
	nested *ModelSerializer
}

// NewEmbeddedModelField returns a field for a single embedded model.
func NewEmbeddedModelField(nested *ModelSerializer, opts ...fields.Option) *EmbeddedModelField {
	return &EmbeddedModelField{Common: fields.NewCommon(opts...), nested: nested}
}

// Nested returns the serializer of the embedded model.
func (f *EmbeddedModelField) Nested() *ModelSerializer {
	return f.nested
}

// ToInternalValue implements [domain.SerializerField]. The result is a
// struct value of the embedded model.
func (f *EmbeddedModelField) ToInternalValue(data any) (any, error) {
	if t := reflect.TypeOf(data); t == f.nested.meta.Type || t == reflect.PointerTo(f.nested.meta.Type) {
		return fields.Deref(data), nil
	}
	if _, ok := data.(map[string]any); !ok {
		verr := &domain.ValidationError{}
		verr.Messages = append(verr.Messages, "Invalid data. Expected a dictionary, but got "+typeName(data)+".")
		return nil, verr
	}
	instance, err := f.nested.Create(data)
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(instance).Elem().Interface(), nil
}

// ToRepresentation implements [domain.SerializerField].
func (f *EmbeddedModelField) ToRepresentation(value any) (any, error) {
	if fields.Deref(value) == nil {
		return nil, nil
	}
	return f.nested.ToRepresentation(value)
}

// RunValidation implements [domain.SerializerField].
func (f *EmbeddedModelField) RunValidation(data any) (any, error) {
	return f.Run(f, data)
}

// ArrayModelField converts a list of nested model instances from and to a
// list of maps.
type ArrayModelField struct {
	fields.Common
	child *EmbeddedModelField
}

// NewArrayModelField returns a field for a list of embedded models. Empty
// lists are only accepted with [fields.WithAllowBlank].
func NewArrayModelField(nested *ModelSerializer, opts ...fields.Option) *ArrayModelField {
	return &ArrayModelField{
		Common: fields.NewCommon(opts...),
		child:  NewEmbeddedModelField(nested),
	}
}

// Nested returns the serializer of the embedded model.
func (f *ArrayModelField) Nested() *ModelSerializer {
	return f.child.nested
}

// ToInternalValue implements [domain.SerializerField]. The result is a list
// of struct values of the embedded model.
func (f *ArrayModelField) ToInternalValue(data any) (any, error) {
	seq, n, err := structure.Seq(data)
	if err != nil {
		verr := &domain.ValidationError{}
		verr.Messages = append(verr.Messages, "Expected a list of items but got type \""+typeName(data)+"\".")
		return nil, verr
	}
	if n == 0 && !f.Options().AllowBlank {
		return nil, domain.NewValidationError("This list may not be empty.")
	}

	res := make([]any, 0, n)
	verr := &domain.ValidationError{}
	i := 0
	for item := range seq {
		v, err := f.child.RunValidation(item)
		if err != nil {
			ve, ok := err.(*domain.ValidationError)
			if !ok {
				return nil, err
			}
			verr.AddField(strconv.Itoa(i), ve)
		}
		res = append(res, v)
		i++
	}
	if verr.HasErrors() {
		return nil, verr
	}
	return res, nil
}

// ToRepresentation implements [domain.SerializerField].
func (f *ArrayModelField) ToRepresentation(value any) (any, error) {
	if fields.Deref(value) == nil {
		return []any{}, nil
	}
	seq, n, err := structure.Seq(value)
	if err != nil {
		return nil, err
	}
	res := make([]any, 0, n)
	for item := range seq {
		rep, err := f.child.ToRepresentation(item)
		if err != nil {
			return nil, err
		}
		res = append(res, rep)
	}
	return res, nil
}

// RunValidation implements [domain.SerializerField].
func (f *ArrayModelField) RunValidation(data any) (any, error) {
	return f.Run(f, data)
}

func typeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case string:
		return "str"
	case []any:
		return "list"
	}
	if _, ok := structure.AsFloat(v); ok {
		return "number"
	}
	return reflect.TypeOf(v).String()
}
