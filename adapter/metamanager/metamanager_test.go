package metamanager

import (
	"maps"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/registry"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/sample"
)

type hiddenReverse struct {
	Target *sample.ObjIDModel `model:",rel=fk,related_name=+"`
}

type oneToOne struct {
	Target *sample.ObjIDModel `model:",rel=o2o,to_field=int_field"`
}

type MetaManagerTestSuite struct {
	suite.Suite
	m *MetaManager
}

func (s *MetaManagerTestSuite) SetupTest() {
	s.m = NewMetaManager().(*MetaManager)
}

func (s *MetaManagerTestSuite) fieldInfo(model any) *domain.FieldInfo {
	info, err := s.m.GetFieldInfo(model)
	s.Require().NoError(err)
	return info
}

func (s *MetaManagerTestSuite) TestGetModelMeta() {
	meta, err := s.m.GetModelMeta(&sample.GenericModel{})
	s.NoError(err)
	s.Equal(reflect.TypeFor[sample.GenericModel](), meta.Type)

	again, err := s.m.GetModelMeta(sample.GenericModel{})
	s.NoError(err)
	s.Same(meta, again)

	_, err = s.m.GetModelMeta(nil)
	s.ErrorAs(err, &domain.ErrNotModel{})

	_, err = s.m.GetModelMeta(3)
	s.ErrorAs(err, &domain.ErrNotModel{})
}

// Models with only basic field types keep the default primary key apart
// from the plain fields.
func (s *MetaManagerTestSuite) TestGenericModelFieldInfo() {
	info := s.fieldInfo(&sample.GenericModel{})

	s.Require().NotNil(info.PK)
	s.Equal("id", info.PK.Name)
	s.Equal(domain.KindAuto, info.PK.Kind)

	fieldKinds := map[string]domain.FieldKind{
		"big_int":       domain.KindBigInteger,
		"bool":          domain.KindBoolean,
		"char":          domain.KindChar,
		"comma_int":     domain.KindCommaSeparatedInteger,
		"date":          domain.KindDate,
		"date_time":     domain.KindDateTime,
		"decimal":       domain.KindDecimal,
		"email":         domain.KindEmail,
		"float":         domain.KindFloat,
		"integer":       domain.KindInteger,
		"null_bool":     domain.KindNullBoolean,
		"pos_int":       domain.KindPositiveInteger,
		"pos_small_int": domain.KindPositiveSmallInteger,
		"slug":          domain.KindSlug,
		"small_int":     domain.KindSmallInteger,
		"text":          domain.KindText,
		"time":          domain.KindTime,
		"url":           domain.KindURL,
		"ip":            domain.KindIPAddress,
		"uuid":          domain.KindUUID,
	}
	s.Len(info.Fields, len(fieldKinds))
	for name, kind := range fieldKinds {
		s.Require().Contains(info.Fields, name)
		s.Equal(kind, info.Fields[name].Kind, name)
	}
	s.NotContains(info.Fields, "id")

	s.Len(info.FieldsAndPK, len(fieldKinds)+2)
	s.Equal(domain.KindAuto, info.FieldsAndPK["pk"].Kind)
	s.Equal(domain.KindAuto, info.FieldsAndPK["id"].Kind)
	for name, kind := range fieldKinds {
		s.Equal(kind, info.FieldsAndPK[name].Kind, name)
	}
	s.Empty(info.Embedded)
}

// A user declared primary key is caught even with a custom name.
func (s *MetaManagerTestSuite) TestUniquePK() {
	info := s.fieldInfo(&sample.ObjIDModel{})

	s.Equal("_id", info.PK.Name)
	s.Equal(domain.KindObjectID, info.PK.Kind)
	s.NotContains(info.Fields, "_id")
	s.Contains(info.FieldsAndPK, "_id")
	s.Equal("_id", info.FieldsAndPK["pk"].Name)
	s.Len(info.Fields, 2)
}

func (s *MetaManagerTestSuite) TestCustomTypedPK() {
	info := s.fieldInfo(&sample.DeepContainerModel{})
	s.Equal("str_id", info.PK.Name)
	s.Equal(domain.KindChar, info.PK.Kind)
	s.NotContains(info.Fields, "str_id")
	s.Same(info.PK, info.FieldsAndPK["pk"])
	s.Same(info.PK, info.FieldsAndPK["str_id"])
}

// One-to-many relations are described from the declaring side.
func (s *MetaManagerTestSuite) TestFKRelation() {
	info := s.fieldInfo(&sample.RelationContainerModel{})

	fk := info.Relations["fk_field"]
	s.Require().NotNil(fk)
	s.Equal(domain.KindForeignKey, fk.ModelField.Kind)
	s.Equal(reflect.TypeFor[sample.GenericModel](), fk.RelatedModel.Type)
	s.False(fk.ToMany)
	s.Equal("id", fk.ToField)
	s.False(fk.HasThroughModel)
	s.False(fk.Reverse)

	s.NotContains(info.Fields, "fk_field")
	s.Same(fk, info.ForwardRelations["fk_field"])
}

func (s *MetaManagerTestSuite) TestM2MRelation() {
	info := s.fieldInfo(&sample.RelationContainerModel{})

	m2m := info.Relations["mfk_field"]
	s.Require().NotNil(m2m)
	s.Equal(domain.KindManyToMany, m2m.ModelField.Kind)
	s.Equal(reflect.TypeFor[sample.ReverseRelatedModel](), m2m.RelatedModel.Type)
	s.True(m2m.ToMany)
	s.Empty(m2m.ToField)
	s.False(m2m.HasThroughModel)
	s.False(m2m.Reverse)
}

func (s *MetaManagerTestSuite) TestThroughModel() {
	info := s.fieldInfo(&sample.GroupModel{})
	members := info.Relations["members"]
	s.Require().NotNil(members)
	s.True(members.HasThroughModel)
	s.True(members.ToMany)
}

// Reverse relations only show up once the declaring model is known.
func (s *MetaManagerTestSuite) TestReverseRelations() {
	info := s.fieldInfo(&sample.ReverseRelatedModel{})
	s.Empty(info.ReverseRelations)

	_ = s.fieldInfo(&sample.RelationContainerModel{})
	_ = s.fieldInfo(&sample.MembershipModel{})
	_ = s.fieldInfo(&sample.GroupModel{})

	info = s.fieldInfo(&sample.ReverseRelatedModel{})
	s.Len(info.ReverseRelations, 3)

	container := info.Relations["container_field"]
	s.Require().NotNil(container)
	s.True(container.Reverse)
	s.True(container.ToMany)
	s.Nil(container.ModelField)
	s.Equal(reflect.TypeFor[sample.RelationContainerModel](), container.RelatedModel.Type)
	s.False(container.HasThroughModel)

	groups := info.Relations["groups"]
	s.Require().NotNil(groups)
	s.True(groups.HasThroughModel)

	memberships := info.Relations["memberships"]
	s.Require().NotNil(memberships)
	s.True(memberships.ToMany)
	s.Equal("_id", memberships.ToField)

	generic := s.fieldInfo(&sample.GenericModel{})
	s.Contains(generic.ReverseRelations, "relationcontainermodel_set")

	group := s.fieldInfo(&sample.GroupModel{})
	s.Contains(group.ReverseRelations, "membershipmodel_set")
}

// Registered models give the same summaries whatever order they are asked in.
func (s *MetaManagerTestSuite) TestRegister() {
	models := sample.All()
	reversed := slices.Clone(models)
	slices.Reverse(reversed)

	reverseNames := func(order []any) map[string][]string {
		m := NewMetaManager().(*MetaManager)
		s.Require().NoError(m.Register(sample.All()...))
		names := make(map[string][]string, len(order))
		for _, model := range order {
			info, err := m.GetFieldInfo(model)
			s.Require().NoError(err)
			meta, err := m.GetModelMeta(model)
			s.Require().NoError(err)
			names[meta.Label] = slices.Sorted(maps.Keys(info.ReverseRelations))
		}
		return names
	}

	forward := reverseNames(models)
	s.Equal(forward, reverseNames(reversed))
	s.Equal([]string{"container_field", "groups", "memberships"}, forward["ReverseRelatedModel"])

	s.ErrorAs(s.m.Register(&sample.GenericModel{}, 3), &domain.ErrNotModel{})
	_, ok := s.m.Registry().GetByType(reflect.TypeFor[sample.GenericModel]())
	s.True(ok)
}

func (s *MetaManagerTestSuite) TestOneToOneAndHiddenReverse() {
	info := s.fieldInfo(&oneToOne{})
	rel := info.Relations["target"]
	s.Equal(domain.KindOneToOne, rel.ModelField.Kind)
	s.False(rel.ToMany)
	s.Equal("int_field", rel.ToField)

	_ = s.fieldInfo(&hiddenReverse{})

	target := s.fieldInfo(&sample.ObjIDModel{})
	s.Len(target.ReverseRelations, 1)
	reverse := target.ReverseRelations["onetoone"]
	s.Require().NotNil(reverse)
	s.False(reverse.ToMany)
	s.True(reverse.Reverse)
}

// Embedded model fields are caught apart from plain fields.
func (s *MetaManagerTestSuite) TestEmbedded() {
	info := s.fieldInfo(&sample.ContainerModel{})
	embed := info.Embedded["embed_field"]
	s.Require().NotNil(embed)
	s.Equal(reflect.TypeFor[sample.EmbedModel](), embed.ModelField.Container)
	s.Equal(reflect.TypeFor[sample.EmbedModel](), embed.ModelType.Type)
	s.False(embed.IsArray)
	s.NotContains(info.Fields, "embed_field")

	info = s.fieldInfo(&sample.ArrayContainerModel{})
	s.True(info.Embedded["embed_list"].IsArray)

	info = s.fieldInfo(&sample.DualEmbedModel{})
	s.Len(info.Embedded, 2)
	s.NotNil(info.Embedded["generic_val"].ModelType.PK)
	s.Nil(info.Embedded["embed_val"].ModelType.PK)
}

// Related and embedded models are registered with the model that
// references them.
func (s *MetaManagerTestSuite) TestTransitiveRegistration() {
	_, err := s.m.GetModelMeta(&sample.DeepContainerModel{})
	s.NoError(err)

	reg := s.m.Registry()
	_, ok := reg.Get("ContainerModel")
	s.True(ok)
	_, ok = reg.Get("EmbedModel")
	s.True(ok)
	s.Equal(3, reg.Len())
}

func (s *MetaManagerTestSuite) TestSharedRegistry() {
	reg := registry.NewRegistry()
	m := NewMetaManager(domain.WithManagerRegistry(reg))
	_, err := m.GetModelMeta(&sample.GroupModel{})
	s.NoError(err)
	_, ok := reg.Get("GroupModel")
	s.True(ok)
	_, ok = reg.Get("ReverseRelatedModel")
	s.True(ok)
}

// The summary is rebuilt on every call.
func (s *MetaManagerTestSuite) TestFreshSummary() {
	a := s.fieldInfo(&sample.ObjIDModel{})
	b := s.fieldInfo(&sample.ObjIDModel{})
	s.NotSame(a, b)
	s.Same(a.PK, b.PK)
}

func TestMetaManagerTestSuite(t *testing.T) {
	suite.Run(t, new(MetaManagerTestSuite))
}
