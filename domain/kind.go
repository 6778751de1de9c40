package domain

import "fmt"

// FieldKind is the declared type of a model field.
type FieldKind int

// Field kinds, named after the model field classes they describe.
const (
	KindUnknown FieldKind = iota

	// Identifiers
	KindAuto
	KindBigAuto
	KindObjectID
	KindUUID

	// Text
	KindChar
	KindText
	KindEmail
	KindURL
	KindSlug
	KindIPAddress
	KindCommaSeparatedInteger

	// Numbers
	KindInteger
	KindBigInteger
	KindSmallInteger
	KindPositiveInteger
	KindPositiveSmallInteger
	KindFloat
	KindDecimal

	// Booleans
	KindBoolean
	KindNullBoolean

	// Time
	KindDate
	KindDateTime
	KindTime

	// Relations
	KindForeignKey
	KindOneToOne
	KindManyToMany

	// Embedded documents
	KindEmbeddedModel
	KindArrayModel
)

var kindNames = map[FieldKind]string{
	KindAuto:                  "AutoField",
	KindBigAuto:               "BigAutoField",
	KindObjectID:              "ObjectIdField",
	KindUUID:                  "UUIDField",
	KindChar:                  "CharField",
	KindText:                  "TextField",
	KindEmail:                 "EmailField",
	KindURL:                   "URLField",
	KindSlug:                  "SlugField",
	KindIPAddress:             "GenericIPAddressField",
	KindCommaSeparatedInteger: "CommaSeparatedIntegerField",
	KindInteger:               "IntegerField",
	KindBigInteger:            "BigIntegerField",
	KindSmallInteger:          "SmallIntegerField",
	KindPositiveInteger:       "PositiveIntegerField",
	KindPositiveSmallInteger:  "PositiveSmallIntegerField",
	KindFloat:                 "FloatField",
	KindDecimal:               "DecimalField",
	KindBoolean:               "BooleanField",
	KindNullBoolean:           "NullBooleanField",
	KindDate:                  "DateField",
	KindDateTime:              "DateTimeField",
	KindTime:                  "TimeField",
	KindForeignKey:            "ForeignKey",
	KindOneToOne:              "OneToOneField",
	KindManyToMany:            "ManyToManyField",
	KindEmbeddedModel:         "EmbeddedModelField",
	KindArrayModel:            "ArrayModelField",
}

var kindTags = map[string]FieldKind{
	"auto":        KindAuto,
	"bigauto":     KindBigAuto,
	"objectid":    KindObjectID,
	"uuid":        KindUUID,
	"char":        KindChar,
	"text":        KindText,
	"email":       KindEmail,
	"url":         KindURL,
	"slug":        KindSlug,
	"ip":          KindIPAddress,
	"comma_int":   KindCommaSeparatedInteger,
	"int":         KindInteger,
	"bigint":      KindBigInteger,
	"smallint":    KindSmallInteger,
	"posint":      KindPositiveInteger,
	"possmallint": KindPositiveSmallInteger,
	"float":       KindFloat,
	"decimal":     KindDecimal,
	"bool":        KindBoolean,
	"nullbool":    KindNullBoolean,
	"date":        KindDate,
	"datetime":    KindDateTime,
	"time":        KindTime,
}

// String returns the model field class name of the kind.
func (k FieldKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownField"
}

// ParseFieldKind converts the value of a `type=` tag option to a FieldKind.
// Relation and embedded kinds are declared through their own tag options
// and cannot be parsed here.
func ParseFieldKind(s string) (FieldKind, error) {
	if k, ok := kindTags[s]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("unknown field type: %s", s)
}

// IsRelation reports whether the kind is a relational field.
func (k FieldKind) IsRelation() bool {
	return k == KindForeignKey || k == KindOneToOne || k == KindManyToMany
}

// IsEmbedded reports whether the kind holds nested model instances.
func (k FieldKind) IsEmbedded() bool {
	return k == KindEmbeddedModel || k == KindArrayModel
}

// IsAuto reports whether values of the kind are generated on save.
func (k FieldKind) IsAuto() bool {
	return k == KindAuto || k == KindBigAuto || k == KindObjectID
}

// IsInteger reports whether the kind stores whole numbers.
func (k FieldKind) IsInteger() bool {
	switch k {
	case KindAuto, KindBigAuto, KindInteger, KindBigInteger,
		KindSmallInteger, KindPositiveInteger, KindPositiveSmallInteger:
		return true
	}
	return false
}

// IsText reports whether the kind stores strings.
func (k FieldKind) IsText() bool {
	switch k {
	case KindChar, KindText, KindEmail, KindURL, KindSlug, KindIPAddress,
		KindCommaSeparatedInteger:
		return true
	}
	return false
}

// OnDelete is the behavior of a relation when the referenced model is
// deleted.
type OnDelete int

// OnDelete behaviors.
const (
	OnDeleteCascade OnDelete = iota
	OnDeleteProtect
	OnDeleteSetNull
	OnDeleteSetDefault
	OnDeleteDoNothing
)

var onDeleteNames = []string{"cascade", "protect", "set_null", "set_default", "do_nothing"}

// String returns the tag spelling of the behavior.
func (o OnDelete) String() string {
	if int(o) >= 0 && int(o) < len(onDeleteNames) {
		return onDeleteNames[o]
	}
	return "unknown"
}

// ParseOnDelete converts the value of an `on_delete=` tag option.
func ParseOnDelete(s string) (OnDelete, error) {
	for n, name := range onDeleteNames {
		if name == s {
			return OnDelete(n), nil
		}
	}
	return 0, fmt.Errorf("unknown on_delete behavior: %s", s)
}
