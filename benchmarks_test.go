package restmongo_test

import (
	"context"
	"testing"

	"github.com/vinicius-lino-figueiredo/restmongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type M = map[string]any

func BenchmarkGetFieldInfo(b *testing.B) {
	b.Run("SharedManager=true", func(b *testing.B) {
		manager := restmongo.NewMetaManager()
		for b.Loop() {
			manager.GetFieldInfo(&Book{})
		}
	})

	b.Run("SharedManager=false", func(b *testing.B) {
		for b.Loop() {
			restmongo.GetFieldInfo(&Book{})
		}
	})
}

func BenchmarkObjectID(b *testing.B) {
	field := restmongo.NewObjectIDField()
	hex := primitive.NewObjectID().Hex()

	b.Run("ToInternalValue", func(b *testing.B) {
		for b.Loop() {
			field.ToInternalValue(hex)
		}
	})

	id, _ := field.ToInternalValue(hex)
	b.Run("ToRepresentation", func(b *testing.B) {
		for b.Loop() {
			field.ToRepresentation(id)
		}
	})
}

func BenchmarkSerializer(b *testing.B) {
	ctx := context.Background()
	ser, err := restmongo.NewModelSerializer(restmongo.NewMetaManager(), &Book{})
	if err != nil {
		b.Fatal(err)
	}
	data := M{
		"title": "Go",
		"tags":  []any{M{"name": "a"}, M{"name": "b"}},
	}

	b.Run("Create", func(b *testing.B) {
		for b.Loop() {
			ser.Create(data)
		}
	})

	book, _ := ser.Create(data)
	b.Run("Serialize", func(b *testing.B) {
		for b.Loop() {
			ser.Serialize(ctx, book)
		}
	})
}

func BenchmarkMemoryStore(b *testing.B) {
	ctx := context.Background()
	manager := restmongo.NewMetaManager()
	mapper := restmongo.NewMapper(manager)
	st := restmongo.NewMemoryStore()

	book := &Book{Title: "Go", Tags: []Tag{{Name: "a"}}}
	b.Run("Insert", func(b *testing.B) {
		for b.Loop() {
			book.ID = primitive.NewObjectID()
			doc, _ := mapper.ToDocument(book)
			st.Insert(ctx, "book", book.ID, doc)
		}
	})

	b.Run("Get", func(b *testing.B) {
		for b.Loop() {
			doc, _ := st.Get(ctx, "book", book.ID)
			mapper.FromDocument(doc, &Book{})
		}
	})
}
