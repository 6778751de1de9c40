package fields

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIDField converts MongoDB ObjectIDs from and to their 24 character
// hexadecimal form.
type ObjectIDField struct {
	base
}

// NewObjectIDField returns a new ObjectIDField.
func NewObjectIDField(opts ...Option) *ObjectIDField {
	return &ObjectIDField{base: newBase(opts)}
}

// ToInternalValue implements [domain.SerializerField]. It accepts hex
// strings and ObjectIDs.
func (f *ObjectIDField) ToInternalValue(data any) (any, error) {
	switch v := data.(type) {
	case primitive.ObjectID:
		return v, nil
	case *primitive.ObjectID:
		if v != nil {
			return *v, nil
		}
	case string:
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return nil, invalid("%q is not a valid ObjectId.", v)
		}
		return id, nil
	}
	return nil, invalid("Incorrect type. Expected a string, but got %s.", typeName(data))
}

// ToRepresentation implements [domain.SerializerField].
func (f *ObjectIDField) ToRepresentation(value any) (any, error) {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex(), nil
	case *primitive.ObjectID:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	case string:
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return nil, unsupported(value, "ObjectId")
		}
		return id.Hex(), nil
	}
	return nil, unsupported(value, "ObjectId")
}

// RunValidation implements [domain.SerializerField].
func (f *ObjectIDField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}
