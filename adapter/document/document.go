// Package document maps model instances to BSON documents and back. Fields
// are stored under their db column, embedded models as nested documents and
// relations as the lookup values of the related models.
package document

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/fields"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mapper converts model instances from and to BSON documents.
type Mapper struct {
	manager domain.MetaManager
	decoder domain.Decoder
}

// NewMapper returns a new Mapper.
func NewMapper(manager domain.MetaManager) *Mapper {
	return &Mapper{
		manager: manager,
		decoder: decoder.NewDecoder(decoder.WithZeroFields()),
	}
}

// ToDocument converts a model instance into a BSON document.
func (m *Mapper) ToDocument(instance any) (bson.M, error) {
	meta, err := m.manager.GetModelMeta(instance)
	if err != nil {
		return nil, err
	}
	return m.toDocument(meta, instance)
}

func (m *Mapper) toDocument(meta *domain.ModelMeta, instance any) (bson.M, error) {
	doc := make(bson.M, len(meta.Fields))
	for _, f := range meta.Fields {
		if f.Virtual() {
			continue
		}
		value, _ := f.Value(instance)
		v, err := m.encodeValue(f, fields.Deref(value))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		doc[f.Column()] = v
	}
	return doc, nil
}

func (m *Mapper) encodeValue(f *domain.Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch f.Kind {
	case domain.KindEmbeddedModel:
		nested, err := m.manager.MetaForType(f.Container)
		if err != nil {
			return nil, err
		}
		return m.toDocument(nested, value)
	case domain.KindArrayModel:
		nested, err := m.manager.MetaForType(f.Container)
		if err != nil {
			return nil, err
		}
		return m.each(value, func(item any) (any, error) {
			return m.toDocument(nested, item)
		})
	case domain.KindForeignKey, domain.KindOneToOne:
		return m.lookupValue(f, value)
	case domain.KindManyToMany:
		return m.each(value, func(item any) (any, error) {
			return m.lookupValue(f, item)
		})
	case domain.KindUUID:
		if id, ok := value.(uuid.UUID); ok {
			return primitive.Binary{Subtype: bson.TypeBinaryUUID, Data: id[:]}, nil
		}
	}
	return value, nil
}

func (m *Mapper) each(value any, fn func(any) (any, error)) (bson.A, error) {
	seq, n, err := structure.Seq(value)
	if err != nil {
		return nil, err
	}
	out := make(bson.A, 0, n)
	for item := range seq {
		v, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Mapper) lookup(f *domain.Field) (*domain.ModelMeta, *domain.Field, error) {
	related, err := m.manager.MetaForType(f.Relation.Target)
	if err != nil {
		return nil, nil, err
	}
	name := f.Relation.ToField
	if name == "" && related.PK != nil {
		name = related.PK.Name
	}
	field, ok := related.Field(name)
	if !ok || field.Virtual() {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrNoPrimaryKey, related.Label)
	}
	return related, field, nil
}

func (m *Mapper) lookupValue(f *domain.Field, item any) (any, error) {
	if fields.Deref(item) == nil {
		return nil, nil
	}
	_, field, err := m.lookup(f)
	if err != nil {
		return nil, err
	}
	v, _ := field.Value(item)
	return fields.Deref(v), nil
}

// FromDocument writes a BSON document into target, which must be a pointer
// to a model.
func (m *Mapper) FromDocument(doc any, target any) error {
	meta, err := m.manager.GetModelMeta(target)
	if err != nil {
		return err
	}
	data, err := m.fromDocument(meta, doc)
	if err != nil {
		return err
	}
	return m.decoder.Decode(data, target)
}

func (m *Mapper) fromDocument(meta *domain.ModelMeta, doc any) (map[string]any, error) {
	src, ok := asMap(doc)
	if !ok {
		return nil, domain.ErrDecode{Source: doc, Target: meta.Label}
	}
	data := make(map[string]any, len(meta.Fields))
	for _, f := range meta.Fields {
		raw, ok := src[f.Column()]
		if !ok || f.Virtual() {
			continue
		}
		v, err := m.decodeValue(f, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		data[f.Name] = v
	}
	return data, nil
}

func (m *Mapper) decodeValue(f *domain.Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.Kind {
	case domain.KindEmbeddedModel:
		nested, err := m.manager.MetaForType(f.Container)
		if err != nil {
			return nil, err
		}
		return m.fromDocument(nested, raw)
	case domain.KindArrayModel:
		nested, err := m.manager.MetaForType(f.Container)
		if err != nil {
			return nil, err
		}
		return m.eachRaw(raw, func(item any) (any, error) {
			return m.fromDocument(nested, item)
		})
	case domain.KindForeignKey, domain.KindOneToOne:
		return m.relatedInstance(f, raw)
	case domain.KindManyToMany:
		return m.eachRaw(raw, func(item any) (any, error) {
			return m.relatedInstance(f, item)
		})
	}
	return raw, nil
}

func (m *Mapper) eachRaw(raw any, fn func(any) (any, error)) ([]any, error) {
	seq, n, err := structure.Seq(raw)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for item := range seq {
		v, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Mapper) relatedInstance(f *domain.Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	related, field, err := m.lookup(f)
	if err != nil {
		return nil, err
	}
	instance := related.New()
	if err := m.decoder.Decode(map[string]any{field.Name: raw}, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func asMap(doc any) (map[string]any, bool) {
	switch d := doc.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return d, true
	case bson.D:
		m := make(map[string]any, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	case bson.Raw:
		var m bson.M
		if err := bson.Unmarshal(d, &m); err != nil {
			return nil, false
		}
		return m, true
	}
	return nil, false
}

// Marshal encodes a model instance as BSON bytes.
func (m *Mapper) Marshal(instance any) ([]byte, error) {
	doc, err := m.ToDocument(instance)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

// Unmarshal decodes BSON bytes into target, which must be a pointer to a
// model.
func (m *Mapper) Unmarshal(b []byte, target any) error {
	if reflect.ValueOf(target).Kind() != reflect.Pointer {
		return domain.ErrNonPointer
	}
	return m.FromDocument(bson.Raw(b), target)
}
