package fields

import (
	"strings"
)

// BooleanField converts booleans. Common textual and numeric forms like
// "yes", "off", 1 and 0 are accepted as input.
type BooleanField struct {
	base
	nullable bool
}

// NewBooleanField returns a new BooleanField.
func NewBooleanField(opts ...Option) *BooleanField {
	return &BooleanField{base: newBase(opts)}
}

// NewNullBooleanField returns a BooleanField that also accepts nil, "null"
// and empty strings, mapping them to nil.
func NewNullBooleanField(opts ...Option) *BooleanField {
	f := NewBooleanField(append(opts, WithAllowNull())...)
	f.nullable = true
	return f
}

// ToInternalValue implements [domain.SerializerField].
func (f *BooleanField) ToInternalValue(data any) (any, error) {
	switch v := data.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, nil
		case "false", "f", "no", "n", "off", "0":
			return false, nil
		case "null", "none", "":
			if f.nullable {
				return nil, nil
			}
		}
	default:
		if i, ok := parseInteger(data); ok {
			switch i {
			case 1:
				return true, nil
			case 0:
				return false, nil
			}
		}
	}
	return nil, invalid("Must be a valid boolean.")
}

// ToRepresentation implements [domain.SerializerField].
func (f *BooleanField) ToRepresentation(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case *bool:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case nil:
		if f.nullable {
			return nil, nil
		}
	}
	return nil, unsupported(value, "boolean")
}

// RunValidation implements [domain.SerializerField].
func (f *BooleanField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}
