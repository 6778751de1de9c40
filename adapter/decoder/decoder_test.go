package decoder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/sample"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DecoderTestSuite struct {
	suite.Suite
	d *Decoder
}

func (s *DecoderTestSuite) SetupTest() {
	s.d = NewDecoder().(*Decoder)
}

func (s *DecoderTestSuite) TestTargetErrors() {
	s.ErrorIs(s.d.Decode(map[string]any{}, nil), domain.ErrTargetNil)
	s.ErrorIs(s.d.Decode(map[string]any{}, sample.ObjIDModel{}), domain.ErrNonPointer)
}

// Tagged names and snake_case names of untagged fields are both matched.
func (s *DecoderTestSuite) TestNames() {
	id := primitive.NewObjectID()
	var m sample.ObjIDModel
	s.NoError(s.d.Decode(map[string]any{
		"_id":        id.Hex(),
		"int_field":  3.0,
		"char_field": "abc",
	}, &m))
	s.Equal(sample.ObjIDModel{ID: id, IntField: 3, CharField: "abc"}, m)
}

func (s *DecoderTestSuite) TestHooks() {
	id := uuid.New()
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	var m sample.GenericModel
	s.NoError(s.d.Decode(map[string]any{
		"uuid":      id.String(),
		"date_time": when.Format(time.RFC3339Nano),
		"date":      primitive.NewDateTimeFromTime(when),
		"null_bool": true,
	}, &m))
	s.Equal(id, m.UUID)
	s.True(when.Equal(m.DateTime))
	s.True(when.Equal(m.Date))
	s.Require().NotNil(m.NullBool)
	s.True(*m.NullBool)
}

func (s *DecoderTestSuite) TestBSONDocuments() {
	id := primitive.NewObjectID()
	var m sample.ArrayContainerModel
	s.NoError(s.d.Decode(bson.D{
		{Key: "_id", Value: id},
		{Key: "embed_list", Value: bson.A{
			bson.D{{Key: "int_field", Value: int32(1)}},
			bson.M{"char_field": "b"},
		}},
	}, &m))
	s.Equal(id, m.ID)
	s.Equal([]sample.EmbedModel{{IntField: 1}, {CharField: "b"}}, m.EmbedList)
}

// Instances of the same model are copied, pointers included.
func (s *DecoderTestSuite) TestStructSource() {
	rel := &sample.GenericModel{ID: 4}
	var m sample.RelationContainerModel
	s.NoError(s.d.Decode(map[string]any{
		"fk_field":  rel,
		"mfk_field": []any{&sample.ReverseRelatedModel{Boolean: true}},
	}, &m))
	s.Equal(4, m.FKField.ID)
	s.Require().Len(m.MFKField, 1)
	s.True(m.MFKField[0].Boolean)
}

func (s *DecoderTestSuite) TestDecodeError() {
	var m sample.ObjIDModel
	err := s.d.Decode(map[string]any{"_id": "not an id"}, &m)
	s.ErrorAs(err, &domain.ErrDecode{})

	err = s.d.Decode(map[string]any{"int_field": "abc"}, &m)
	s.ErrorAs(err, &domain.ErrDecode{})
}

func (s *DecoderTestSuite) TestZeroFields() {
	m := map[string]any{"a": 1, "b": 2}
	s.NoError(s.d.Decode(map[string]any{"c": 3}, &m))
	s.Len(m, 3)

	d := NewDecoder(WithZeroFields())
	s.NoError(d.Decode(map[string]any{"c": 3}, &m))
	s.Equal(map[string]any{"c": 3}, m)
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}
