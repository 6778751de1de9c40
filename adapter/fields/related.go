package fields

import (
	"reflect"
	"strconv"

	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
)

// PrimaryKeyRelatedField represents a related model by the value of one of
// its fields, usually the primary key. On input it returns a new instance of
// the related model with only that field set.
type PrimaryKeyRelatedField struct {
	base
	related *domain.ModelMeta
	lookup  *domain.Field
	value   domain.SerializerField
}

// NewPrimaryKeyRelatedField returns a field relating to the given model
// through lookup, whose values are converted by value.
func NewPrimaryKeyRelatedField(related *domain.ModelMeta, lookup *domain.Field, value domain.SerializerField, opts ...Option) *PrimaryKeyRelatedField {
	return &PrimaryKeyRelatedField{
		base:    newBase(opts),
		related: related,
		lookup:  lookup,
		value:   value,
	}
}

// Related returns the metadata of the related model.
func (f *PrimaryKeyRelatedField) Related() *domain.ModelMeta {
	return f.related
}

// ToInternalValue implements [domain.SerializerField].
func (f *PrimaryKeyRelatedField) ToInternalValue(data any) (any, error) {
	if f.isInstance(data) {
		return data, nil
	}
	v, err := f.value.ToInternalValue(data)
	if err != nil {
		return nil, invalid("Incorrect type. Expected pk value, received %s.", typeName(data))
	}
	instance := f.related.New()
	if err := f.lookup.SetValue(instance, v); err != nil {
		return nil, invalid("Invalid pk %q - object does not exist.", data)
	}
	return instance, nil
}

func (f *PrimaryKeyRelatedField) isInstance(data any) bool {
	t := reflect.TypeOf(data)
	return t == f.related.Type || t == reflect.PointerTo(f.related.Type)
}

// ToRepresentation implements [domain.SerializerField].
func (f *PrimaryKeyRelatedField) ToRepresentation(value any) (any, error) {
	if isNil(value) {
		return nil, nil
	}
	if !f.isInstance(value) {
		return f.value.ToRepresentation(value)
	}
	v, ok := f.lookup.Value(value)
	if !ok {
		return nil, nil
	}
	return f.value.ToRepresentation(Deref(v))
}

// RunValidation implements [domain.SerializerField].
func (f *PrimaryKeyRelatedField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}

// ManyRelatedField wraps a related field to handle lists of related models.
type ManyRelatedField struct {
	base
	child domain.SerializerField
}

// NewManyRelatedField returns a list field of child. Empty lists are only
// accepted with [WithAllowBlank].
func NewManyRelatedField(child domain.SerializerField, opts ...Option) *ManyRelatedField {
	return &ManyRelatedField{base: newBase(opts), child: child}
}

// Child returns the field used for each item.
func (f *ManyRelatedField) Child() domain.SerializerField {
	return f.child
}

// ToInternalValue implements [domain.SerializerField].
func (f *ManyRelatedField) ToInternalValue(data any) (any, error) {
	seq, n, err := structure.Seq(data)
	if err != nil {
		return nil, invalid("Expected a list of items but got type %q.", typeName(data))
	}
	if n == 0 && !f.opts.AllowBlank {
		return nil, invalid("This list may not be empty.")
	}

	res := make([]any, 0, n)
	verr := &domain.ValidationError{}
	i := 0
	for item := range seq {
		v, err := f.child.RunValidation(item)
		if err != nil {
			if ve, ok := err.(*domain.ValidationError); ok {
				verr.AddField(strconv.Itoa(i), ve)
			} else {
				return nil, err
			}
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
func (f *ManyRelatedField) ToRepresentation(value any) (any, error) {
	if isNil(value) {
		return []any{}, nil
	}
	seq, n, err := structure.Seq(value)
	if err != nil {
		return nil, unsupported(value, "list")
	}
	res := make([]any, 0, n)
	for item := range seq {
		v, err := f.child.ToRepresentation(item)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// RunValidation implements [domain.SerializerField].
func (f *ManyRelatedField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}
