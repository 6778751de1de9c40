package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/metamanager"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/sample"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentTestSuite struct {
	suite.Suite
	m *Mapper
}

func (s *DocumentTestSuite) SetupTest() {
	s.m = NewMapper(metamanager.NewMetaManager())
}

// Fields are stored under their db column.
func (s *DocumentTestSuite) TestColumns() {
	id := primitive.NewObjectID()
	doc, err := s.m.ToDocument(&sample.OptionsModel{DBColumnID: id, ChoiceChar: "Foo"})
	s.NoError(err)
	s.Equal(id, doc["_id"])
	s.NotContains(doc, "db_column_id")
	s.Equal("Foo", doc["choice_char"])
	s.Nil(doc["null_char"])

	var back sample.OptionsModel
	s.NoError(s.m.FromDocument(doc, &back))
	s.Equal(id, back.DBColumnID)
	s.Equal("Foo", back.ChoiceChar)
}

func (s *DocumentTestSuite) TestEmbedded() {
	original := &sample.ArrayContainerModel{
		ID:        primitive.NewObjectID(),
		EmbedList: []sample.EmbedModel{{IntField: 1, CharField: "a"}, {IntField: 2}},
	}
	doc, err := s.m.ToDocument(original)
	s.NoError(err)
	list, ok := doc["embed_list"].(bson.A)
	s.Require().True(ok)
	s.Len(list, 2)
	s.Equal("a", list[0].(bson.M)["char_field"])

	b, err := s.m.Marshal(original)
	s.NoError(err)
	var back sample.ArrayContainerModel
	s.NoError(s.m.Unmarshal(b, &back))
	s.Equal(*original, back)
}

// Relations are stored as the lookup values of the related models.
func (s *DocumentTestSuite) TestRelations() {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	original := &sample.RelationContainerModel{
		ID:       primitive.NewObjectID(),
		FKField:  &sample.GenericModel{ID: 7, Char: "not stored"},
		MFKField: []*sample.ReverseRelatedModel{{ID: a}, {ID: b}},
	}
	doc, err := s.m.ToDocument(original)
	s.NoError(err)
	s.Equal(7, doc["fk_field"])
	s.Equal(bson.A{a, b}, doc["mfk_field"])

	raw, err := s.m.Marshal(original)
	s.NoError(err)
	var back sample.RelationContainerModel
	s.NoError(s.m.Unmarshal(raw, &back))
	s.Equal(&sample.GenericModel{ID: 7}, back.FKField)
	s.Equal([]*sample.ReverseRelatedModel{{ID: a}, {ID: b}}, back.MFKField)

	doc, err = s.m.ToDocument(&sample.RelationContainerModel{})
	s.NoError(err)
	s.Nil(doc["fk_field"])
}

func (s *DocumentTestSuite) TestGenericRoundTrip() {
	yes := true
	original := &sample.GenericModel{
		ID:          3,
		BigInt:      1 << 40,
		Bool:        true,
		Char:        "c",
		Date:        time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		DateTime:    time.Date(2024, 2, 29, 13, 14, 15, int(5*time.Millisecond), time.UTC),
		Decimal:     1.5,
		Float:       2.25,
		Integer:     -4,
		NullBool:    &yes,
		PosInt:      9,
		PosSmallInt: 10,
		SmallInt:    -3,
		UUID:        uuid.New(),
	}
	doc, err := s.m.ToDocument(original)
	s.NoError(err)
	s.IsType(primitive.Binary{}, doc["uuid"])

	b, err := s.m.Marshal(original)
	s.NoError(err)
	var back sample.GenericModel
	s.NoError(s.m.Unmarshal(b, &back))
	s.Equal(*original, back)
}

func (s *DocumentTestSuite) TestErrors() {
	_, err := s.m.ToDocument(3)
	s.ErrorAs(err, &domain.ErrNotModel{})

	s.ErrorIs(s.m.Unmarshal(nil, sample.ObjIDModel{}), domain.ErrNonPointer)

	var m sample.ObjIDModel
	s.ErrorAs(s.m.FromDocument("text", &m), &domain.ErrDecode{})
}

func TestDocumentTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentTestSuite))
}
