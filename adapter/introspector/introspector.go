// Package introspector contains the default [domain.Introspector]
// implementation, which reads model metadata from struct tags.
package introspector

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	objectIDType = reflect.TypeFor[primitive.ObjectID]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	timeType     = reflect.TypeFor[time.Time]()
	modelType    = reflect.TypeFor[domain.Model]()
)

// Introspector implements [domain.Introspector]. Built metadata is cached per
// type.
type Introspector struct {
	cache sync.Map // map[reflect.Type]*domain.ModelMeta
}

// NewIntrospector returns a new implementation of domain.Introspector.
func NewIntrospector() domain.Introspector {
	return &Introspector{}
}

// Introspect implements [domain.Introspector].
func (i *Introspector) Introspect(t reflect.Type) (*domain.ModelMeta, error) {
	if t == nil {
		return nil, domain.ErrNotModel{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, domain.ErrNotModel{Type: t}
	}

	if meta, ok := i.cache.Load(t); ok {
		return meta.(*domain.ModelMeta), nil
	}

	meta, err := buildMeta(t)
	if err != nil {
		return nil, err
	}
	actual, _ := i.cache.LoadOrStore(t, meta)
	return actual.(*domain.ModelMeta), nil
}

func modelOptions(t reflect.Type) domain.ModelOptions {
	var opts domain.ModelOptions
	if reflect.PointerTo(t).Implements(modelType) {
		opts = reflect.New(t).Interface().(domain.Model).ModelOptions()
	}
	if opts.Label == "" {
		opts.Label = t.Name()
	}
	if opts.Collection == "" {
		opts.Collection = structure.SnakeCase(opts.Label)
	}
	return opts
}

func buildMeta(t reflect.Type) (*domain.ModelMeta, error) {
	opts := modelOptions(t)
	meta := &domain.ModelMeta{
		Label:   opts.Label,
		Type:    t,
		Options: opts,
	}

	fields, err := collectFields(meta.Label, t, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return nil, domain.ErrFieldTag{Model: meta.Label, Field: f.GoName, Reason: "duplicate field name " + f.Name}
		}
		seen[f.Name] = true
	}
	meta.Fields = fields

	if err := resolvePK(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func collectFields(label string, t reflect.Type, prefix []int) ([]*domain.Field, error) {
	var fields []*domain.Field
	for n := range t.NumField() {
		sf := t.Field(n)
		if sf.PkgPath != "" {
			continue
		}
		raw, hasTag := sf.Tag.Lookup(structure.TagName)
		tag, err := structure.ParseTag(raw)
		if err != nil {
			return nil, domain.ErrFieldTag{Model: label, Field: sf.Name, Tag: raw, Reason: err.Error()}
		}
		if tag.Skip {
			continue
		}

		index := append(append([]int{}, prefix...), sf.Index...)

		// untagged embedded structs contribute their own fields
		if sf.Anonymous && !hasTag && sf.Type.Kind() == reflect.Struct {
			sub, err := collectFields(label, sf.Type, index)
			if err != nil {
				return nil, err
			}
			fields = append(fields, sub...)
			continue
		}

		f, err := buildField(sf, index, tag)
		if err != nil {
			return nil, domain.ErrFieldTag{Model: label, Field: sf.Name, Tag: raw, Reason: err.Error()}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func buildField(sf reflect.StructField, index []int, tag structure.Tag) (*domain.Field, error) {
	name := tag.Name
	if name == "" {
		name = structure.SnakeCase(sf.Name)
	}
	f := &domain.Field{
		Name:     name,
		GoName:   sf.Name,
		Index:    index,
		Type:     sf.Type,
		Editable: !tag.Has("readonly"),
		Null:     tag.Has("null"),
		Blank:    tag.Has("blank"),
		Unique:   tag.Has("unique"),
	}
	f.DBColumn, _ = tag.Value("db_column")
	f.HelpText, _ = tag.Value("help")
	f.Default, f.HasDefault = tag.Value("default")
	if choices, ok := tag.Value("choices"); ok && choices != "" {
		f.Choices = strings.Split(choices, "|")
	}

	var err error
	if f.MaxLength, err = tag.Int("max_length"); err != nil {
		return nil, err
	}
	if f.MaxDigits, err = tag.Int("max_digits"); err != nil {
		return nil, err
	}
	if f.DecimalPlaces, err = tag.Int("decimal_places"); err != nil {
		return nil, err
	}

	if err := setKind(f, sf.Type, tag); err != nil {
		return nil, err
	}

	f.PrimaryKey = tag.Has("pk") || (f.Kind == domain.KindObjectID && !tag.Has("nopk"))
	if tag.Has("pk") && tag.Has("nopk") {
		return nil, fmt.Errorf("pk and nopk are mutually exclusive")
	}
	return f, nil
}

func setKind(f *domain.Field, t reflect.Type, tag structure.Tag) error {
	base := t
	pointer := false
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
		pointer = true
	}

	if rel, ok := tag.Value("rel"); ok {
		return setRelation(f, t, tag, rel)
	}

	switch {
	case tag.Has("embedded"):
		if base.Kind() != reflect.Struct {
			return fmt.Errorf("embedded field must be a struct, got %s", t)
		}
		f.Kind, f.Container = domain.KindEmbeddedModel, base
		return nil
	case tag.Has("array"):
		elem, ok := sliceStruct(t)
		if !ok {
			return fmt.Errorf("array field must be a slice of structs, got %s", t)
		}
		f.Kind, f.Container = domain.KindArrayModel, elem
		return nil
	}

	if typ, ok := tag.Value("type"); ok {
		kind, err := domain.ParseFieldKind(typ)
		if err != nil {
			return err
		}
		if !compatible(kind, base) {
			return fmt.Errorf("type %s cannot be stored in %s", typ, t)
		}
		f.Kind = kind
	} else {
		kind, err := inferKind(t, base)
		if err != nil {
			return err
		}
		f.Kind = kind
	}

	switch f.Kind {
	case domain.KindEmbeddedModel:
		f.Container = base
	case domain.KindArrayModel:
		f.Container, _ = sliceStruct(t)
	case domain.KindNullBoolean:
		f.Null = true
	case domain.KindAuto, domain.KindBigAuto:
		f.Editable, f.Blank = false, true
	default:
		if pointer {
			f.Null = true
		}
	}
	return nil
}

func setRelation(f *domain.Field, t reflect.Type, tag structure.Tag, rel string) error {
	spec := &domain.RelationSpec{}
	switch rel {
	case "fk", "o2o":
		target := t
		if target.Kind() == reflect.Pointer {
			target = target.Elem()
		}
		if target.Kind() != reflect.Struct {
			return fmt.Errorf("%s relation must point to a struct, got %s", rel, t)
		}
		spec.Target = target
		f.Kind = domain.KindForeignKey
		if rel == "o2o" {
			f.Kind = domain.KindOneToOne
			f.Unique = true
		}
	case "m2m":
		target, ok := sliceStruct(t)
		if !ok {
			return fmt.Errorf("m2m relation must be a slice of structs, got %s", t)
		}
		spec.Target = target
		f.Kind = domain.KindManyToMany
		spec.Through, _ = tag.Value("through")
	default:
		return fmt.Errorf("unknown relation %s", rel)
	}

	spec.ToField, _ = tag.Value("to_field")
	spec.RelatedName, _ = tag.Value("related_name")
	if od, ok := tag.Value("on_delete"); ok {
		onDelete, err := domain.ParseOnDelete(od)
		if err != nil {
			return err
		}
		spec.OnDelete = onDelete
	}
	if f.Kind == domain.KindManyToMany && spec.ToField != "" {
		return fmt.Errorf("m2m relations do not accept to_field")
	}
	f.Relation = spec
	return nil
}

func sliceStruct(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Slice {
		return nil, false
	}
	elem := t.Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct || elem == timeType {
		return nil, false
	}
	return elem, true
}

func inferKind(t, base reflect.Type) (domain.FieldKind, error) {
	switch base {
	case objectIDType:
		return domain.KindObjectID, nil
	case uuidType:
		return domain.KindUUID, nil
	case timeType:
		return domain.KindDateTime, nil
	}

	switch base.Kind() {
	case reflect.String:
		return domain.KindChar, nil
	case reflect.Bool:
		if t.Kind() == reflect.Pointer {
			return domain.KindNullBoolean, nil
		}
		return domain.KindBoolean, nil
	case reflect.Int, reflect.Int32:
		return domain.KindInteger, nil
	case reflect.Int64:
		return domain.KindBigInteger, nil
	case reflect.Int8, reflect.Int16:
		return domain.KindSmallInteger, nil
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return domain.KindPositiveInteger, nil
	case reflect.Uint8, reflect.Uint16:
		return domain.KindPositiveSmallInteger, nil
	case reflect.Float32, reflect.Float64:
		return domain.KindFloat, nil
	case reflect.Struct:
		return domain.KindEmbeddedModel, nil
	case reflect.Slice:
		if _, ok := sliceStruct(t); ok {
			return domain.KindArrayModel, nil
		}
	}
	return domain.KindUnknown, fmt.Errorf("unsupported type %s", t)
}

func compatible(kind domain.FieldKind, base reflect.Type) bool {
	switch {
	case kind == domain.KindObjectID:
		return base == objectIDType
	case kind == domain.KindUUID:
		return base == uuidType || base.Kind() == reflect.String
	case kind == domain.KindDate, kind == domain.KindDateTime, kind == domain.KindTime:
		return base == timeType
	case kind == domain.KindDecimal, kind == domain.KindFloat:
		return base.Kind() == reflect.Float32 || base.Kind() == reflect.Float64
	case kind == domain.KindBoolean, kind == domain.KindNullBoolean:
		return base.Kind() == reflect.Bool
	case kind.IsText():
		return base.Kind() == reflect.String
	case kind.IsInteger():
		switch base.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
	}
	return false
}

func resolvePK(meta *domain.ModelMeta) error {
	var pks []*domain.Field
	for _, f := range meta.Fields {
		if f.PrimaryKey {
			pks = append(pks, f)
		}
	}

	if len(pks) > 1 {
		names := make([]string, len(pks))
		for n, f := range pks {
			names[n] = f.Name
		}
		return domain.ErrMultiplePK{Model: meta.Label, Fields: names}
	}

	if len(pks) == 1 {
		meta.PK = pks[0]
	} else if !meta.Options.Abstract {
		pk, err := autoPK(meta)
		if err != nil {
			return err
		}
		meta.PK = pk
	}

	if meta.PK != nil {
		meta.PK.Unique = true
		meta.PK.Null = false
	}
	return nil
}

// autoPK designates the default "id" primary key, reusing an integer "id"
// field when the struct declares one. Any other "id" field would clash with
// the key.
func autoPK(meta *domain.ModelMeta) (*domain.Field, error) {
	if f, ok := meta.Field("id"); ok {
		if !f.Kind.IsInteger() {
			return nil, domain.ErrFieldTag{
				Model:  meta.Label,
				Field:  f.GoName,
				Reason: "id can only be used as a field name if it is the primary key",
			}
		}
		f.PrimaryKey = true
		f.Kind = domain.KindAuto
		if f.Type.Kind() == reflect.Int64 {
			f.Kind = domain.KindBigAuto
		}
		f.Editable, f.Blank = false, true
		return f, nil
	}
	pk := &domain.Field{
		Name:       "id",
		Kind:       domain.KindAuto,
		Type:       reflect.TypeFor[int64](),
		PrimaryKey: true,
		Blank:      true,
	}
	meta.Fields = append([]*domain.Field{pk}, meta.Fields...)
	return pk, nil
}
