// Package metamanager contains the default [domain.MetaManager]
// implementation. It registers models on first use and builds the field info
// summaries consumed by serializers.
//
// Reverse relations are found by scanning the registered models. A model only
// learns about the relations pointing at it once the declaring models are
// registered, so applications call [MetaManager.Register] with all their
// models before building summaries.
package metamanager

import (
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/vinicius-lino-figueiredo/restmongo/adapter/introspector"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/registry"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.uber.org/zap"
)

// MetaManager implements [domain.MetaManager].
type MetaManager struct {
	mu           sync.Mutex
	registry     domain.Registry
	introspector domain.Introspector
	logger       *zap.Logger
}

// NewMetaManager returns a new implementation of domain.MetaManager.
func NewMetaManager(options ...domain.MetaManagerOption) domain.MetaManager {
	opts := domain.MetaManagerOptions{
		Introspector: introspector.NewIntrospector(),
		Logger:       zap.NewNop(),
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = registry.NewRegistry(registry.WithLogger(opts.Logger))
	}
	return &MetaManager{
		registry:     opts.Registry,
		introspector: opts.Introspector,
		logger:       opts.Logger,
	}
}

// Registry returns the registry holding every model seen by the manager.
func (m *MetaManager) Registry() domain.Registry {
	return m.registry
}

// GetModelMeta implements [domain.MetaManager].
func (m *MetaManager) GetModelMeta(model any) (*domain.ModelMeta, error) {
	if model == nil {
		return nil, domain.ErrNotModel{}
	}
	return m.MetaForType(reflect.TypeOf(model))
}

// MetaForType implements [domain.MetaManager].
func (m *MetaManager) MetaForType(t reflect.Type) (*domain.ModelMeta, error) {
	if meta, ok := m.registry.GetByType(t); ok {
		return meta, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	meta, err := m.introspector.Introspect(t)
	if err != nil {
		return nil, err
	}
	if err := m.register(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Register implements [domain.MetaManager].
func (m *MetaManager) Register(models ...any) error {
	for _, model := range models {
		if _, err := m.GetModelMeta(model); err != nil {
			return err
		}
	}
	m.logger.Debug("models registered", zap.Int("models", m.registry.Len()))
	return nil
}

// register adds meta and every model reachable through its relations and
// embedded fields.
func (m *MetaManager) register(root *domain.ModelMeta) error {
	pending := []*domain.ModelMeta{root}
	visited := map[reflect.Type]bool{}
	for len(pending) > 0 {
		meta := pending[0]
		pending = pending[1:]
		if visited[meta.Type] {
			continue
		}
		visited[meta.Type] = true

		if err := m.registry.Register(meta); err != nil {
			return err
		}

		for _, f := range meta.Fields {
			var next reflect.Type
			switch {
			case f.Relation != nil:
				next = f.Relation.Target
			case f.Container != nil:
				next = f.Container
			default:
				continue
			}
			if visited[next] {
				continue
			}
			if _, ok := m.registry.GetByType(next); ok {
				continue
			}
			nextMeta, err := m.introspector.Introspect(next)
			if err != nil {
				return err
			}
			pending = append(pending, nextMeta)
		}
	}
	return nil
}

// GetFieldInfo implements [domain.MetaManager].
func (m *MetaManager) GetFieldInfo(model any) (*domain.FieldInfo, error) {
	meta, err := m.GetModelMeta(model)
	if err != nil {
		return nil, err
	}
	return m.fieldInfo(meta)
}

// FieldInfoForMeta builds the summary of an already known model.
func (m *MetaManager) FieldInfoForMeta(meta *domain.ModelMeta) (*domain.FieldInfo, error) {
	return m.fieldInfo(meta)
}

func (m *MetaManager) fieldInfo(meta *domain.ModelMeta) (*domain.FieldInfo, error) {
	info := &domain.FieldInfo{
		PK:               meta.PK,
		Fields:           make(map[string]*domain.Field),
		ForwardRelations: make(map[string]*domain.RelationInfo),
		ReverseRelations: make(map[string]*domain.RelationInfo),
		Embedded:         make(map[string]*domain.EmbeddedInfo),
	}

	for _, f := range meta.Fields {
		switch {
		case f.Kind.IsRelation():
			rel, err := m.forwardRelation(f)
			if err != nil {
				return nil, err
			}
			info.ForwardRelations[f.Name] = rel
		case f.Kind.IsEmbedded():
			emb, err := m.embedded(f)
			if err != nil {
				return nil, err
			}
			info.Embedded[f.Name] = emb
		case f.PrimaryKey:
		default:
			info.Fields[f.Name] = f
		}
	}

	info.FieldsAndPK = maps.Clone(info.Fields)
	if meta.PK != nil {
		info.FieldsAndPK[domain.PKAlias] = meta.PK
		info.FieldsAndPK[meta.PK.Name] = meta.PK
	}

	for other := range m.registry.All() {
		for _, f := range other.Fields {
			if f.Relation == nil || f.Relation.Target != meta.Type {
				continue
			}
			name := reverseName(other, f)
			if name == "" {
				continue
			}
			info.ReverseRelations[name] = m.reverseRelation(name, other, f)
		}
	}

	info.Relations = maps.Clone(info.ForwardRelations)
	maps.Copy(info.Relations, info.ReverseRelations)
	return info, nil
}

func (m *MetaManager) forwardRelation(f *domain.Field) (*domain.RelationInfo, error) {
	related, err := m.MetaForType(f.Relation.Target)
	if err != nil {
		return nil, err
	}
	rel := &domain.RelationInfo{
		Name:         f.Name,
		ModelField:   f,
		RelatedModel: related,
		ToMany:       f.Kind == domain.KindManyToMany,
	}
	if !rel.ToMany {
		rel.ToField = toField(f, related)
	}
	rel.HasThroughModel = f.Relation.Through != ""
	return rel, nil
}

func (m *MetaManager) reverseRelation(name string, declaring *domain.ModelMeta, f *domain.Field) *domain.RelationInfo {
	rel := &domain.RelationInfo{
		Name:         name,
		RelatedModel: declaring,
		ToMany:       f.Kind != domain.KindOneToOne,
		Reverse:      true,
	}
	switch f.Kind {
	case domain.KindManyToMany:
		rel.HasThroughModel = f.Relation.Through != ""
	default:
		if target, ok := m.registry.GetByType(f.Relation.Target); ok {
			rel.ToField = toField(f, target)
		}
	}
	m.logger.Debug("reverse relation found",
		zap.String("model", declaring.Label),
		zap.String("field", f.Name),
		zap.String("accessor", name),
	)
	return rel
}

func (m *MetaManager) embedded(f *domain.Field) (*domain.EmbeddedInfo, error) {
	nested, err := m.MetaForType(f.Container)
	if err != nil {
		return nil, err
	}
	return &domain.EmbeddedInfo{
		ModelField: f,
		ModelType:  nested,
		IsArray:    f.Kind == domain.KindArrayModel,
	}, nil
}

func toField(f *domain.Field, related *domain.ModelMeta) string {
	if f.Relation.ToField != "" {
		return f.Relation.ToField
	}
	if related.PK != nil {
		return related.PK.Name
	}
	return ""
}

// reverseName returns the accessor name of the reverse side of f, or an
// empty string when the reverse side is hidden.
func reverseName(declaring *domain.ModelMeta, f *domain.Field) string {
	name := f.Relation.RelatedName
	if strings.HasSuffix(name, "+") {
		return ""
	}
	if name != "" {
		return name
	}
	name = strings.ToLower(declaring.Label)
	if f.Kind == domain.KindOneToOne {
		return name
	}
	return name + "_set"
}
