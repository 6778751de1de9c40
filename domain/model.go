package domain

import (
	"fmt"
	"reflect"
	"strings"
)

// PKAlias is the key under which the primary key is always reachable in
// [FieldInfo.FieldsAndPK].
const PKAlias = "pk"

// Empty is passed to [SerializerField.RunValidation] when the input did not
// contain the field at all, which differs from an explicit nil.
var Empty any = emptyValue{}

type emptyValue struct{}

// ModelOptions are the model-level options a struct can declare by
// implementing [Model].
type ModelOptions struct {
	// Label identifies the model in the registry. Defaults to the Go type
	// name.
	Label string
	// Collection is the name of the MongoDB collection. Defaults to the
	// snake_case label.
	Collection string
	// Abstract models are only used embedded in other models. They do not
	// get an automatic primary key.
	Abstract bool
}

// RelationSpec holds the declaration of a forward relation.
type RelationSpec struct {
	// Target is the struct type of the related model.
	Target reflect.Type
	// ToField is the explicit related field used for lookups, if any.
	ToField string
	// RelatedName is the accessor name of the reverse relation. "+"
	// disables the reverse relation.
	RelatedName string
	// Through is the label of an explicit intermediate model.
	Through  string
	OnDelete OnDelete
}

// Field describes one declared model field.
type Field struct {
	// Name is the model field name, as used in representations.
	Name string
	// GoName is the name of the struct field. Empty for virtual fields.
	GoName string
	// Index is the struct field index sequence. Nil for virtual fields.
	Index []int
	Kind  FieldKind
	// Type is the Go type of the struct field.
	Type reflect.Type

	PrimaryKey    bool
	Null          bool
	Blank         bool
	Unique        bool
	Editable      bool
	HasDefault    bool
	Default       string
	Choices       []string
	HelpText      string
	MaxLength     int
	MaxDigits     int
	DecimalPlaces int
	DBColumn      string

	// Relation is set for forward relational fields.
	Relation *RelationSpec
	// Container is the struct type of the embedded model, set for
	// embedded kinds.
	Container reflect.Type
}

// Column returns the document key the field is stored under.
func (f *Field) Column() string {
	if f.DBColumn != "" {
		return f.DBColumn
	}
	return f.Name
}

// Virtual reports whether the field has no backing struct field.
func (f *Field) Virtual() bool {
	return f.Index == nil
}

// Value reads the field from a model instance. It returns false for virtual
// fields and nil pointers along the way.
func (f *Field) Value(instance any) (any, bool) {
	v, ok := f.structField(instance, false)
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// SetValue writes the field into a model instance, which must be a pointer.
func (f *Field) SetValue(instance any, value any) error {
	v, ok := f.structField(instance, true)
	if !ok {
		return fmt.Errorf("%w: cannot set field %q", ErrNonPointer, f.Name)
	}
	if err := assign(v, value); err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	return nil
}

// assign sets value into dst, wrapping it in a pointer, converting it or
// building a slice of dst's element type when needed.
func assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
	case dst.Kind() == reflect.Pointer && rv.Type().AssignableTo(dst.Type().Elem()):
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(rv)
		dst.Set(p)
	case dst.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			if err := assign(out.Index(i), rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		dst.Set(out)
	case rv.Type().ConvertibleTo(dst.Type()):
		dst.Set(rv.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", rv.Type(), dst.Type())
	}
	return nil
}

func (f *Field) structField(instance any, settable bool) (reflect.Value, bool) {
	if f.Index == nil || instance == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(instance)
	if settable && v.Kind() != reflect.Pointer {
		return reflect.Value{}, false
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return fv, true
}

// ModelMeta is the metadata of one model.
type ModelMeta struct {
	Label   string
	Type    reflect.Type
	Options ModelOptions
	// Fields lists every field in declaration order. An automatic primary
	// key comes first.
	Fields []*Field
	// PK is the primary key field. Nil only for abstract models without a
	// declared primary key.
	PK *Field
}

// Field returns the field with the given name.
func (m *ModelMeta) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Collection returns the MongoDB collection name of the model.
func (m *ModelMeta) Collection() string {
	if m.Options.Collection != "" {
		return m.Options.Collection
	}
	return strings.ToLower(m.Label)
}

// New returns a pointer to a new zero instance of the model.
func (m *ModelMeta) New() any {
	return reflect.New(m.Type).Interface()
}

// RelationInfo describes a relational field, declared on the model or on the
// other side of the relation.
type RelationInfo struct {
	// Name is the accessor name of the relation.
	Name string
	// ModelField is the declaring field. Nil for reverse relations.
	ModelField *Field
	// RelatedModel is the model on the other side.
	RelatedModel *ModelMeta
	ToMany       bool
	// ToField is the related field used for lookups. Empty for
	// many-to-many relations.
	ToField         string
	HasThroughModel bool
	Reverse         bool
}

// EmbeddedInfo describes a field holding nested model instances.
type EmbeddedInfo struct {
	ModelField *Field
	// ModelType is the metadata of the nested model.
	ModelType *ModelMeta
	IsArray   bool
}

// FieldInfo is the summary built by introspection for one model.
type FieldInfo struct {
	PK *Field
	// Fields holds plain fields, without the primary key, relations and
	// embedded fields.
	Fields           map[string]*Field
	ForwardRelations map[string]*RelationInfo
	ReverseRelations map[string]*RelationInfo
	// FieldsAndPK is Fields plus the primary key, under its own name and
	// under [PKAlias].
	FieldsAndPK map[string]*Field
	// Relations merges forward and reverse relations.
	Relations map[string]*RelationInfo
	Embedded  map[string]*EmbeddedInfo
}
