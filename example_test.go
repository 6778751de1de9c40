package restmongo_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vinicius-lino-figueiredo/restmongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Author struct {
	ID   primitive.ObjectID `model:"_id"`
	Name string             `model:",max_length=50"`
}

type Book struct {
	ID     primitive.ObjectID `model:"_id"`
	Title  string             `model:",max_length=50"`
	Author *Author            `model:",rel=fk,null,related_name=books"`
	Tags   []Tag
}

type Tag struct {
	Name string
}

func (Tag) ModelOptions() restmongo.ModelOptions {
	return restmongo.ModelOptions{Abstract: true}
}

func ExampleGetFieldInfo() {
	info, _ := restmongo.GetFieldInfo(&Book{})

	_, inFields := info.Fields["_id"]
	fmt.Println(info.PK.Name, inFields, info.FieldsAndPK["pk"].Name)

	author := info.ForwardRelations["author"]
	fmt.Println(author.RelatedModel.Label, author.ToMany, author.ToField, author.Reverse)

	fmt.Println(info.Embedded["tags"].ModelType.Label, info.Embedded["tags"].IsArray)
	// Output:
	// _id false _id
	// Author false _id false
	// Tag true
}

func ExampleGetFieldInfo_reverse() {
	info, _ := restmongo.GetFieldInfo(&Author{}, &Book{})

	books := info.ReverseRelations["books"]
	fmt.Println(books.RelatedModel.Label, books.ToMany, books.Reverse)
	// Output:
	// Book true true
}

func ExampleNewObjectIDField() {
	field := restmongo.NewObjectIDField()

	id, _ := field.RunValidation("65f1a2b3c4d5e6f708091a2b")
	rep, _ := field.ToRepresentation(id)
	fmt.Println(rep)

	_, err := field.RunValidation("65f1a2b3")
	fmt.Println(err)
	_, err = field.RunValidation(12)
	fmt.Println(err, errors.Is(err, restmongo.ErrValidation))
	// Output:
	// 65f1a2b3c4d5e6f708091a2b
	// "65f1a2b3" is not a valid ObjectId.
	// Incorrect type. Expected a string, but got number. true
}

func ExampleNewModelSerializer() {
	manager := restmongo.NewMetaManager()
	ser, _ := restmongo.NewModelSerializer(manager, &Book{})

	book, _ := ser.Create(map[string]any{
		"title": "Go",
		"tags":  []any{map[string]any{"name": "programming"}},
	})
	rep, _ := ser.ToRepresentation(book)
	b, _ := json.Marshal(rep)
	fmt.Println(string(b))

	_, err := ser.Create(map[string]any{"title": strings.Repeat("x", 60), "tags": "none"})
	b, _ = json.Marshal(err)
	fmt.Println(string(b))
	// Output:
	// {"_id":"000000000000000000000000","author":null,"tags":[{"name":"programming"}],"title":"Go"}
	// {"tags":["Expected a list of items but got type \"str\"."],"title":["Ensure this field has no more than 50 characters."]}
}
