package domain_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.uber.org/zap"
)

type item struct {
	Name  string
	Count *int
	Tags  []string
}

type DomainTestSuite struct {
	suite.Suite
}

func (s *DomainTestSuite) TestOptions() {
	var so domain.SerializerOptions
	logger := zap.NewNop()
	for _, opt := range []domain.SerializerOption{
		domain.WithSerializerFields("a", "b"),
		domain.WithSerializerExclude("c"),
		domain.WithSerializerReadOnly("d"),
		domain.WithSerializerLogger(logger),
	} {
		opt(&so)
	}
	s.Equal(domain.SerializerOptions{
		Fields:   []string{"a", "b"},
		Exclude:  []string{"c"},
		ReadOnly: []string{"d"},
		Logger:   logger,
	}, so)

	var mo domain.MetaManagerOptions
	domain.WithManagerLogger(logger)(&mo)
	s.Same(logger, mo.Logger)
}

func (s *DomainTestSuite) TestKinds() {
	k, err := domain.ParseFieldKind("comma_int")
	s.NoError(err)
	s.Equal(domain.KindCommaSeparatedInteger, k)
	s.Equal("CommaSeparatedIntegerField", k.String())
	s.True(k.IsText())
	s.False(k.IsInteger())

	_, err = domain.ParseFieldKind("fk")
	s.Error(err)
	s.Equal("UnknownField", domain.KindUnknown.String())
	s.True(domain.KindManyToMany.IsRelation())
	s.True(domain.KindArrayModel.IsEmbedded())
	s.True(domain.KindObjectID.IsAuto())

	o, err := domain.ParseOnDelete("set_null")
	s.NoError(err)
	s.Equal(domain.OnDeleteSetNull, o)
	s.Equal("set_null", o.String())
	_, err = domain.ParseOnDelete("nothing")
	s.Error(err)
}

func (s *DomainTestSuite) TestValidationError() {
	nested := &domain.ValidationError{}
	nested.AddField("int_field", domain.NewValidationError("A valid integer is required."))
	verr := domain.NewValidationError("Invalid input.")
	verr.AddField("embed", nested)
	verr.AddField("name", domain.NewValidationError("This field is required."))

	s.True(verr.HasErrors())
	s.False((&domain.ValidationError{}).HasErrors())
	s.True(errors.Is(verr, domain.ErrValidation))
	s.EqualError(verr, "Invalid input.; embed.int_field: A valid integer is required.; name: This field is required.")

	field, ok := verr.Field("embed.int_field")
	s.True(ok)
	s.Equal([]string{"A valid integer is required."}, field.Messages)
	_, ok = verr.Field("embed.missing")
	s.False(ok)

	b, err := json.Marshal(verr)
	s.NoError(err)
	s.JSONEq(`{
		"non_field_errors": ["Invalid input."],
		"embed": {"int_field": ["A valid integer is required."]},
		"name": ["This field is required."]
	}`, string(b))

	b, err = json.Marshal(&domain.ValidationError{})
	s.NoError(err)
	s.Equal(`[]`, string(b))
}

func (s *DomainTestSuite) TestFieldValues() {
	name := &domain.Field{Name: "name", Index: []int{0}, DBColumn: "_name"}
	count := &domain.Field{Name: "count", Index: []int{1}}
	tags := &domain.Field{Name: "tags", Index: []int{2}}
	virtual := &domain.Field{Name: "id"}

	s.Equal("_name", name.Column())
	s.Equal("count", count.Column())
	s.True(virtual.Virtual())

	var it item
	s.NoError(name.SetValue(&it, "a"))
	s.NoError(count.SetValue(&it, 3))
	s.NoError(tags.SetValue(&it, []any{"x", "y"}))
	s.Equal("a", it.Name)
	s.Equal(3, *it.Count)
	s.Equal([]string{"x", "y"}, it.Tags)

	v, ok := count.Value(&it)
	s.True(ok)
	s.Equal(it.Count, v)
	_, ok = virtual.Value(&it)
	s.False(ok)

	s.NoError(count.SetValue(&it, nil))
	s.Nil(it.Count)
	s.ErrorIs(name.SetValue(it, "b"), domain.ErrNonPointer)
	s.Error(name.SetValue(&it, struct{}{}))
}

func (s *DomainTestSuite) TestModelMeta() {
	meta := &domain.ModelMeta{
		Label:  "Item",
		Type:   reflect.TypeFor[item](),
		Fields: []*domain.Field{{Name: "name", Index: []int{0}}},
	}
	s.Equal("item", meta.Collection())
	meta.Options.Collection = "items"
	s.Equal("items", meta.Collection())

	f, ok := meta.Field("name")
	s.True(ok)
	s.Same(meta.Fields[0], f)
	_, ok = meta.Field("other")
	s.False(ok)

	s.IsType(&item{}, meta.New())
}

func TestDomainTestSuite(t *testing.T) {
	suite.Run(t, new(DomainTestSuite))
}
