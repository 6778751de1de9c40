// Package serializer contains the model serializer, which builds one
// serializer field per model field from the field info summary and uses them
// to convert whole model instances.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/fields"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
	"go.uber.org/zap"
)

// BoundField is one serializer field bound to the model field it reads from
// and writes to.
type BoundField struct {
	Name       string
	ModelField *domain.Field
	Field      domain.SerializerField
}

// ModelSerializer converts instances of one model from and to plain maps.
type ModelSerializer struct {
	manager domain.MetaManager
	meta    *domain.ModelMeta
	info    *domain.FieldInfo
	fields  []*BoundField
	decoder domain.Decoder
	logger  *zap.Logger
	// nested holds the embedded model serializers of one build, shared so
	// that self-embedding models reuse the serializer being built.
	nested map[reflect.Type]*ModelSerializer
}

// NewModelSerializer returns a serializer for the model of the given
// instance.
func NewModelSerializer(manager domain.MetaManager, model any, options ...domain.SerializerOption) (*ModelSerializer, error) {
	meta, err := manager.GetModelMeta(model)
	if err != nil {
		return nil, err
	}
	return newForMeta(manager, meta, make(map[reflect.Type]*ModelSerializer), options...)
}

func newForMeta(manager domain.MetaManager, meta *domain.ModelMeta, nested map[reflect.Type]*ModelSerializer, options ...domain.SerializerOption) (*ModelSerializer, error) {
	opts := domain.SerializerOptions{
		Decoder: decoder.NewDecoder(decoder.WithZeroFields()),
		Logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(&opts)
	}

	info, err := manager.GetFieldInfo(meta.New())
	if err != nil {
		return nil, err
	}

	s := &ModelSerializer{
		manager: manager,
		meta:    meta,
		info:    info,
		decoder: opts.Decoder,
		logger:  opts.Logger.With(zap.String("model", meta.Label)),
		nested:  nested,
	}
	if err := s.bind(opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ModelSerializer) bind(opts domain.SerializerOptions) error {
	for _, name := range opts.Fields {
		if name == domain.PKAlias && s.meta.PK != nil {
			continue
		}
		if _, ok := s.meta.Field(name); !ok {
			return fmt.Errorf("%w: field %q is not declared on %s", domain.ErrUnknownField, name, s.meta.Label)
		}
	}

	for _, f := range s.meta.Fields {
		if !selected(f, opts) {
			continue
		}
		var extra []fields.Option
		if slices.Contains(opts.ReadOnly, f.Name) {
			extra = append(extra, fields.WithReadOnly())
		}

		var (
			field domain.SerializerField
			err   error
		)
		switch {
		case f.Kind.IsRelation():
			field, err = s.relatedField(f, extra)
		case f.Kind.IsEmbedded():
			field, err = s.embeddedField(f, extra)
		default:
			field, err = fields.ForModelField(f, extra...)
		}
		if err != nil {
			return err
		}
		s.fields = append(s.fields, &BoundField{Name: f.Name, ModelField: f, Field: field})
	}

	s.logger.Debug("serializer built", zap.Int("fields", len(s.fields)))
	return nil
}

func selected(f *domain.Field, opts domain.SerializerOptions) bool {
	if slices.Contains(opts.Exclude, f.Name) {
		return false
	}
	if len(opts.Fields) == 0 {
		return true
	}
	return slices.Contains(opts.Fields, f.Name) ||
		(f.PrimaryKey && slices.Contains(opts.Fields, domain.PKAlias))
}

func relationOptions(f *domain.Field, extra []fields.Option) []fields.Option {
	opts := slices.Clone(extra)
	if f.Null {
		opts = append(opts, fields.WithAllowNull(), fields.WithOptional())
	}
	if f.Blank {
		opts = append(opts, fields.WithAllowBlank(), fields.WithOptional())
	}
	if !f.Editable {
		opts = append(opts, fields.WithReadOnly())
	}
	return opts
}

func (s *ModelSerializer) relatedField(f *domain.Field, extra []fields.Option) (domain.SerializerField, error) {
	rel, ok := s.info.ForwardRelations[f.Name]
	if !ok {
		return nil, fmt.Errorf("%w: relation %q", domain.ErrUnknownField, f.Name)
	}

	lookupName := rel.ToField
	if lookupName == "" && rel.RelatedModel.PK != nil {
		lookupName = rel.RelatedModel.PK.Name
	}
	lookup, ok := rel.RelatedModel.Field(lookupName)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %q", domain.ErrUnknownField, rel.RelatedModel.Label, lookupName)
	}
	value, err := fields.ForModelField(lookup)
	if err != nil {
		return nil, err
	}

	opts := relationOptions(f, extra)
	if !rel.ToMany {
		return fields.NewPrimaryKeyRelatedField(rel.RelatedModel, lookup, value, opts...), nil
	}
	child := fields.NewPrimaryKeyRelatedField(rel.RelatedModel, lookup, value)
	return fields.NewManyRelatedField(child, opts...), nil
}

func (s *ModelSerializer) embeddedField(f *domain.Field, extra []fields.Option) (domain.SerializerField, error) {
	emb, ok := s.info.Embedded[f.Name]
	if !ok {
		return nil, fmt.Errorf("%w: embedded field %q", domain.ErrUnknownField, f.Name)
	}
	nested, err := s.nestedSerializer(emb.ModelType)
	if err != nil {
		return nil, err
	}
	opts := relationOptions(f, extra)
	if emb.IsArray {
		return NewArrayModelField(nested, opts...), nil
	}
	return NewEmbeddedModelField(nested, opts...), nil
}

// nestedSerializer returns the serializer of an embedded model. A model met
// again on the way down gets the serializer already being built for it, which
// is complete by the time any field is used.
func (s *ModelSerializer) nestedSerializer(meta *domain.ModelMeta) (*ModelSerializer, error) {
	if nested, ok := s.nested[meta.Type]; ok {
		return nested, nil
	}
	info, err := s.manager.GetFieldInfo(meta.New())
	if err != nil {
		return nil, err
	}
	nested := &ModelSerializer{
		manager: s.manager,
		meta:    meta,
		info:    info,
		decoder: s.decoder,
		logger:  s.logger.With(zap.String("embedded", meta.Label)),
		nested:  s.nested,
	}
	s.nested[meta.Type] = nested
	if err := nested.bind(domain.SerializerOptions{}); err != nil {
		delete(s.nested, meta.Type)
		return nil, err
	}
	return nested, nil
}

// Meta returns the metadata of the serialized model.
func (s *ModelSerializer) Meta() *domain.ModelMeta {
	return s.meta
}

// FieldInfo returns the summary the serializer was built from.
func (s *ModelSerializer) FieldInfo() *domain.FieldInfo {
	return s.info
}

// Fields returns the bound fields in declaration order.
func (s *ModelSerializer) Fields() []*BoundField {
	return s.fields
}

// ToRepresentation converts a model instance into a map keyed by field name.
func (s *ModelSerializer) ToRepresentation(instance any) (map[string]any, error) {
	if t := fields.Deref(instance); t == nil {
		return nil, domain.ErrTargetNil
	}
	out := make(map[string]any, len(s.fields))
	for _, bf := range s.fields {
		value, ok := bf.ModelField.Value(instance)
		value = fields.Deref(value)
		if !ok || value == nil {
			out[bf.Name] = nil
			continue
		}
		rep, err := bf.Field.ToRepresentation(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", bf.Name, err)
		}
		out[bf.Name] = rep
	}
	return out, nil
}

// ToInternalValue validates data against every writable field. Field errors
// are aggregated into a single [*domain.ValidationError].
func (s *ModelSerializer) ToInternalValue(data any) (map[string]any, error) {
	return s.Validate(data, false)
}

// Validate is ToInternalValue with support for partial input, where missing
// fields are skipped instead of being required.
func (s *ModelSerializer) Validate(data any, partial bool) (map[string]any, error) {
	input, ok := asMap(data)
	if !ok {
		verr := &domain.ValidationError{}
		verr.Messages = append(verr.Messages, fmt.Sprintf("Invalid data. Expected a dictionary, but got %T.", data))
		return nil, verr
	}

	validated := make(map[string]any, len(s.fields))
	verr := &domain.ValidationError{}
	for _, bf := range s.fields {
		if bf.Field.ReadOnly() {
			continue
		}
		raw, present := input[bf.Name]
		if !present {
			if partial {
				continue
			}
			raw = domain.Empty
		}
		v, err := bf.Field.RunValidation(raw)
		if err != nil {
			ve, ok := err.(*domain.ValidationError)
			if !ok {
				return nil, fmt.Errorf("field %q: %w", bf.Name, err)
			}
			verr.AddField(bf.Name, ve)
			continue
		}
		if v == domain.Empty {
			continue
		}
		validated[bf.Name] = v
	}
	if verr.HasErrors() {
		s.logger.Debug("validation failed", zap.Error(verr))
		return nil, verr
	}
	return validated, nil
}

func asMap(data any) (map[string]any, bool) {
	if m, ok := data.(map[string]any); ok {
		return m, true
	}
	seq, _, err := structure.Seq2(data)
	if err != nil {
		return nil, false
	}
	m := make(map[string]any)
	for k, v := range seq {
		m[k] = v
	}
	return m, true
}

// Create validates data and returns a pointer to a new instance holding it.
func (s *ModelSerializer) Create(data any) (any, error) {
	validated, err := s.Validate(data, false)
	if err != nil {
		return nil, err
	}
	instance := s.meta.New()
	if err := s.decoder.Decode(validated, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// Update validates data and writes it into instance, which must be a
// pointer. With partial set, missing fields keep their current values.
func (s *ModelSerializer) Update(instance any, data any, partial bool) (any, error) {
	validated, err := s.Validate(data, partial)
	if err != nil {
		return nil, err
	}
	if err := s.decoder.Decode(validated, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// Serialize implements [domain.Serializer]. Lists of instances are
// serialized as JSON arrays.
func (s *ModelSerializer) Serialize(ctx context.Context, value any) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	rep, err := s.represent(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}

// Encode writes the JSON representation of value to w, stopping when ctx is
// done.
func (s *ModelSerializer) Encode(ctx context.Context, w io.Writer, value any) error {
	rep, err := s.represent(value)
	if err != nil {
		return err
	}
	return json.NewEncoder(contextio.NewWriter(ctx, w)).Encode(rep)
}

func (s *ModelSerializer) represent(value any) (any, error) {
	seq, n, err := structure.Seq(value)
	if err != nil {
		return s.ToRepresentation(value)
	}
	list := make([]any, 0, n)
	for item := range seq {
		rep, err := s.ToRepresentation(item)
		if err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, nil
}
