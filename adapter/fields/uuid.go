package fields

import (
	"github.com/google/uuid"
)

// UUIDField converts UUIDs from and to their hyphenated form.
type UUIDField struct {
	base
}

// NewUUIDField returns a new UUIDField.
func NewUUIDField(opts ...Option) *UUIDField {
	return &UUIDField{base: newBase(opts)}
}

// ToInternalValue implements [domain.SerializerField].
func (f *UUIDField) ToInternalValue(data any) (any, error) {
	switch v := data.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		if id, err := uuid.Parse(v); err == nil {
			return id, nil
		}
	}
	return nil, invalid("Must be a valid UUID.")
}

// ToRepresentation implements [domain.SerializerField].
func (f *UUIDField) ToRepresentation(value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		if id, err := uuid.Parse(v); err == nil {
			return id.String(), nil
		}
	}
	return nil, unsupported(value, "UUID")
}

// RunValidation implements [domain.SerializerField].
func (f *UUIDField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}
