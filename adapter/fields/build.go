package fields

import (
	"fmt"

	"github.com/vinicius-lino-figueiredo/restmongo/domain"
)

// ForModelField builds the serializer field matching a plain model field.
// Relational and embedded fields are built by the model serializer.
func ForModelField(f *domain.Field, extra ...Option) (domain.SerializerField, error) {
	opts := optionsFor(f)
	opts = append(opts, extra...)

	var field domain.SerializerField
	switch f.Kind {
	case domain.KindAuto, domain.KindBigAuto:
		field = NewIntegerField(append(opts, WithReadOnly())...)
	case domain.KindObjectID:
		if f.PrimaryKey {
			opts = append(opts, WithReadOnly())
		} else {
			opts = append(opts, WithOptional())
		}
		field = NewObjectIDField(opts...)
	case domain.KindUUID:
		field = NewUUIDField(opts...)
	case domain.KindChar, domain.KindText:
		field = NewCharField(opts...)
	case domain.KindEmail:
		field = NewEmailField(opts...)
	case domain.KindURL:
		field = NewURLField(opts...)
	case domain.KindSlug:
		field = NewSlugField(opts...)
	case domain.KindIPAddress:
		field = NewIPAddressField(opts...)
	case domain.KindCommaSeparatedInteger:
		field = NewCommaSeparatedIntegerField(opts...)
	case domain.KindInteger:
		field = NewIntegerField(append(opts, WithMinValue(IntegerMin), WithMaxValue(IntegerMax))...)
	case domain.KindBigInteger:
		field = NewIntegerField(opts...)
	case domain.KindSmallInteger:
		field = NewIntegerField(append(opts, WithMinValue(SmallIntegerMin), WithMaxValue(SmallIntegerMax))...)
	case domain.KindPositiveInteger:
		field = NewIntegerField(append(opts, WithMinValue(0), WithMaxValue(PositiveMax))...)
	case domain.KindPositiveSmallInteger:
		field = NewIntegerField(append(opts, WithMinValue(0), WithMaxValue(PositiveSmallMax))...)
	case domain.KindFloat:
		field = NewFloatField(opts...)
	case domain.KindDecimal:
		field = NewDecimalField(append(opts, WithDigits(f.MaxDigits, f.DecimalPlaces))...)
	case domain.KindBoolean:
		field = NewBooleanField(opts...)
	case domain.KindNullBoolean:
		field = NewNullBooleanField(opts...)
	case domain.KindDate:
		field = NewDateField(opts...)
	case domain.KindDateTime:
		field = NewDateTimeField(opts...)
	case domain.KindTime:
		field = NewTimeField(opts...)
	default:
		return nil, fmt.Errorf("%w: no serializer field for %s %q", domain.ErrUnsupportedValue, f.Kind, f.Name)
	}

	if !f.HasDefault {
		return field, nil
	}
	def, err := field.ToInternalValue(f.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid default for field %q: %w", f.Name, err)
	}
	return withDefault(field, def), nil
}

func optionsFor(f *domain.Field) []Option {
	var opts []Option
	if f.Null {
		opts = append(opts, WithAllowNull(), WithOptional())
	}
	if f.Blank {
		opts = append(opts, WithAllowBlank(), WithOptional())
	}
	if len(f.Choices) > 0 {
		opts = append(opts, WithChoices(f.Choices...))
	}
	if f.MaxLength > 0 {
		opts = append(opts, WithMaxLength(f.MaxLength))
	}
	if !f.Editable {
		opts = append(opts, WithReadOnly())
	}
	return opts
}

type defaulter interface {
	setDefault(v any)
}

func (b *base) setDefault(v any) {
	b.opts.HasDefault = true
	b.opts.Default = v
}

func withDefault(field domain.SerializerField, v any) domain.SerializerField {
	if d, ok := field.(defaulter); ok {
		d.setDefault(v)
	}
	return field
}
