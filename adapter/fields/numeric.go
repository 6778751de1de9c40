package fields

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
)

// Bounds of the integer kinds.
const (
	SmallIntegerMin  int64 = math.MinInt16
	SmallIntegerMax  int64 = math.MaxInt16
	IntegerMin       int64 = math.MinInt32
	IntegerMax       int64 = math.MaxInt32
	PositiveMax      int64 = math.MaxInt32
	PositiveSmallMax int64 = math.MaxInt16
)

// IntegerField converts whole numbers to int64.
type IntegerField struct {
	base
}

// NewIntegerField returns a new IntegerField. Use [WithMinValue] and
// [WithMaxValue] to restrict the range.
func NewIntegerField(opts ...Option) *IntegerField {
	return &IntegerField{base: newBase(opts)}
}

// ToInternalValue implements [domain.SerializerField].
func (f *IntegerField) ToInternalValue(data any) (any, error) {
	i, ok := parseInteger(data)
	if !ok {
		return nil, invalid("A valid integer is required.")
	}
	if f.opts.MinValue != nil && i < *f.opts.MinValue {
		return nil, invalid("Ensure this value is greater than or equal to %d.", *f.opts.MinValue)
	}
	if f.opts.MaxValue != nil && i > *f.opts.MaxValue {
		return nil, invalid("Ensure this value is less than or equal to %d.", *f.opts.MaxValue)
	}
	return i, nil
}

// ToRepresentation implements [domain.SerializerField].
func (f *IntegerField) ToRepresentation(value any) (any, error) {
	if i, ok := structure.AsInteger(value); ok {
		return i, nil
	}
	return nil, unsupported(value, "integer")
}

// RunValidation implements [domain.SerializerField].
func (f *IntegerField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}

func parseInteger(data any) (int64, bool) {
	switch v := data.(type) {
	case bool:
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if fl, err := strconv.ParseFloat(s, 64); err == nil {
			return structure.AsInteger(fl)
		}
		return 0, false
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		if fl, err := v.Float64(); err == nil {
			return structure.AsInteger(fl)
		}
		return 0, false
	}
	return structure.AsInteger(data)
}

// FloatField converts numbers to float64.
type FloatField struct {
	base
}

// NewFloatField returns a new FloatField.
func NewFloatField(opts ...Option) *FloatField {
	return &FloatField{base: newBase(opts)}
}

// ToInternalValue implements [domain.SerializerField].
func (f *FloatField) ToInternalValue(data any) (any, error) {
	fl, ok := parseFloat(data)
	if !ok {
		return nil, invalid("A valid number is required.")
	}
	return fl, nil
}

// ToRepresentation implements [domain.SerializerField].
func (f *FloatField) ToRepresentation(value any) (any, error) {
	if fl, ok := structure.AsFloat(value); ok {
		return fl, nil
	}
	return nil, unsupported(value, "float")
}

// RunValidation implements [domain.SerializerField].
func (f *FloatField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}

// DecimalField converts fixed precision numbers. The internal value is a
// float64 and the representation is a string with the configured number of
// decimal places.
type DecimalField struct {
	base
}

// NewDecimalField returns a new DecimalField. Use [WithDigits] to set the
// precision.
func NewDecimalField(opts ...Option) *DecimalField {
	return &DecimalField{base: newBase(opts)}
}

// ToInternalValue implements [domain.SerializerField].
func (f *DecimalField) ToInternalValue(data any) (any, error) {
	fl, ok := parseFloat(data)
	if !ok {
		return nil, invalid("A valid number is required.")
	}

	text := strconv.FormatFloat(math.Abs(fl), 'f', -1, 64)
	whole, decimals, _ := strings.Cut(text, ".")
	whole = strings.TrimLeft(whole, "0")
	digits := len(whole) + len(decimals)

	maxDigits, places := f.opts.MaxDigits, f.opts.DecimalPlaces
	if maxDigits > 0 && digits > maxDigits {
		return nil, invalid("Ensure that there are no more than %d digits in total.", maxDigits)
	}
	if places > 0 && len(decimals) > places {
		return nil, invalid("Ensure that there are no more than %d decimal places.", places)
	}
	if maxDigits > 0 && len(whole) > maxDigits-places {
		return nil, invalid("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places)
	}
	return fl, nil
}

// ToRepresentation implements [domain.SerializerField].
func (f *DecimalField) ToRepresentation(value any) (any, error) {
	fl, ok := structure.AsFloat(value)
	if !ok {
		return nil, unsupported(value, "decimal")
	}
	places := -1
	if f.opts.MaxDigits > 0 || f.opts.DecimalPlaces > 0 {
		places = f.opts.DecimalPlaces
	}
	return strconv.FormatFloat(fl, 'f', places, 64), nil
}

// RunValidation implements [domain.SerializerField].
func (f *DecimalField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}

func parseFloat(data any) (float64, bool) {
	var fl float64
	switch v := data.(type) {
	case bool:
		return 0, false
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		fl = parsed
	default:
		n, ok := asNumber(data)
		if !ok {
			return 0, false
		}
		fl = n
	}
	if math.IsNaN(fl) || math.IsInf(fl, 0) {
		return 0, false
	}
	return fl, true
}

func asNumber(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		fl, err := n.Float64()
		return fl, err == nil
	}
	return structure.AsFloat(v)
}
