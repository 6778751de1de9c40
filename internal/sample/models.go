// Package sample declares the models used by the test suites and by the
// inspect command of the CLI. They cover every field kind, custom primary
// keys, embedded documents and relations.
package sample

import (
	"time"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenericModel has one field of every plain kind and the default primary
// key.
type GenericModel struct {
	ID          int
	BigInt      int64
	Bool        bool
	Char        string
	CommaInt    string    `model:",type=comma_int"`
	Date        time.Time `model:",type=date"`
	DateTime    time.Time
	Decimal     float64 `model:",type=decimal,max_digits=10,decimal_places=5"`
	Email       string  `model:",type=email"`
	Float       float64
	Integer     int
	NullBool    *bool
	PosInt      uint32
	PosSmallInt uint16
	Slug        string    `model:",type=slug"`
	SmallInt    int16
	Text        string    `model:",type=text"`
	Time        time.Time `model:",type=time"`
	URL         string    `model:",type=url"`
	IP          string    `model:",type=ip"`
	UUID        uuid.UUID
}

// ObjIDModel uses its ObjectID as primary key.
type ObjIDModel struct {
	ID        primitive.ObjectID `model:"_id"`
	IntField  int
	CharField string `model:",max_length=5"`
}

// OptionsModel exercises the field options.
type OptionsModel struct {
	DBColumnID   primitive.ObjectID `model:"db_column_id,db_column=_id"`
	NullChar     *string
	BlankChar    string `model:",type=text,blank"`
	ChoiceChar   string `model:",choices=Foo|Bar|Baz"`
	DefaultEmail string `model:",type=email,default=noonecares@no.nope"`
	ReadOnlyInt  int    `model:",readonly"`
	CustomError  int
	HelpChar     string `model:",help=Super helpful text"`
	UniqueInt    int    `model:",unique"`
}

// EmbedModel is only stored inside other models.
type EmbedModel struct {
	ID        primitive.ObjectID `model:"_id,nopk"`
	IntField  int
	CharField string `model:",max_length=5"`
}

// ModelOptions implements [domain.Model].
func (EmbedModel) ModelOptions() domain.ModelOptions {
	return domain.ModelOptions{Abstract: true}
}

// ContainerModel holds one embedded model.
type ContainerModel struct {
	ID         primitive.ObjectID `model:"_id"`
	EmbedField EmbedModel
}

// DeepContainerModel embeds a model that embeds another one, and has a
// custom string primary key.
type DeepContainerModel struct {
	StrID     string `model:"str_id,pk"`
	DeepEmbed ContainerModel
}

// ArrayContainerModel holds a list of embedded models.
type ArrayContainerModel struct {
	ID        primitive.ObjectID `model:"_id"`
	EmbedList []EmbedModel
}

// DualEmbedModel embeds both a concrete and an abstract model.
type DualEmbedModel struct {
	ID         primitive.ObjectID `model:"_id"`
	GenericVal GenericModel
	EmbedVal   EmbedModel
}

// ReverseRelatedModel is the target of RelationContainerModel's
// many-to-many relation.
type ReverseRelatedModel struct {
	ID      primitive.ObjectID `model:"_id"`
	Boolean bool               `model:",default=true"`
}

// RelationContainerModel has a foreign key and a many-to-many relation.
type RelationContainerModel struct {
	ID       primitive.ObjectID     `model:"_id"`
	FKField  *GenericModel          `model:"fk_field,rel=fk,on_delete=cascade"`
	MFKField []*ReverseRelatedModel `model:"mfk_field,rel=m2m,blank,related_name=container_field"`
}

// GroupModel has a many-to-many relation through MembershipModel.
type GroupModel struct {
	ID      primitive.ObjectID     `model:"_id"`
	Name    string                 `model:",max_length=30"`
	Members []*ReverseRelatedModel `model:",rel=m2m,through=MembershipModel,related_name=groups"`
}

// MembershipModel is the intermediate model between GroupModel and
// ReverseRelatedModel.
type MembershipModel struct {
	ID     primitive.ObjectID   `model:"_id"`
	Group  *GroupModel          `model:",rel=fk"`
	Member *ReverseRelatedModel `model:",rel=fk,related_name=memberships"`
	Since  time.Time            `model:",type=date,null"`
}

// All returns one instance of every sample model.
func All() []any {
	return []any{
		&GenericModel{},
		&ObjIDModel{},
		&OptionsModel{},
		&ContainerModel{},
		&DeepContainerModel{},
		&ArrayContainerModel{},
		&DualEmbedModel{},
		&ReverseRelatedModel{},
		&RelationContainerModel{},
		&GroupModel{},
		&MembershipModel{},
	}
}
