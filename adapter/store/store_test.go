package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ctx = context.Background()

// StoreTestSuite checks the behavior shared by every domain.Store.
type StoreTestSuite struct {
	suite.Suite
	newStore func(t *testing.T) domain.Store
	st       domain.Store
}

func (s *StoreTestSuite) SetupTest() {
	s.st = s.newStore(s.T())
}

func (s *StoreTestSuite) TestInsertGet() {
	id := primitive.NewObjectID()
	s.NoError(s.st.Insert(ctx, "models", id, bson.M{"_id": id, "name": "a"}))

	doc, err := s.st.Get(ctx, "models", id)
	s.NoError(err)
	s.Equal(id, doc["_id"])
	s.Equal("a", doc["name"])

	s.ErrorIs(s.st.Insert(ctx, "models", id, bson.M{"_id": id}), domain.ErrDuplicateKey)

	// Same key, different collection.
	s.NoError(s.st.Insert(ctx, "others", id, bson.M{"_id": id}))
}

func (s *StoreTestSuite) TestNotFound() {
	_, err := s.st.Get(ctx, "models", 1)
	s.ErrorIs(err, domain.ErrNotFound)
	s.ErrorIs(s.st.Replace(ctx, "models", 1, bson.M{}), domain.ErrNotFound)
	s.ErrorIs(s.st.Delete(ctx, "models", 1), domain.ErrNotFound)

	s.NoError(s.st.Insert(ctx, "models", 2, bson.M{"id": 2}))
	_, err = s.st.Get(ctx, "models", 1)
	s.ErrorIs(err, domain.ErrNotFound)
}

// Documents are listed in insertion order.
func (s *StoreTestSuite) TestList() {
	docs, err := s.st.List(ctx, "models")
	s.NoError(err)
	s.Empty(docs)

	for _, n := range []int{3, 1, 2} {
		s.NoError(s.st.Insert(ctx, "models", n, bson.M{"id": n}))
	}
	s.NoError(s.st.Delete(ctx, "models", 1))

	docs, err = s.st.List(ctx, "models")
	s.NoError(err)
	s.Equal([]bson.M{{"id": int32(3)}, {"id": int32(2)}}, docs)
}

func (s *StoreTestSuite) TestReplace() {
	id := uuid.New()
	s.NoError(s.st.Insert(ctx, "models", id, bson.M{"name": "a"}))
	s.NoError(s.st.Replace(ctx, "models", id, bson.M{"name": "b"}))

	doc, err := s.st.Get(ctx, "models", id)
	s.NoError(err)
	s.Equal(bson.M{"name": "b"}, doc)

	docs, err := s.st.List(ctx, "models")
	s.NoError(err)
	s.Len(docs, 1)
}

func (s *StoreTestSuite) TestDelete() {
	s.NoError(s.st.Insert(ctx, "models", "key", bson.M{"name": "a"}))
	s.NoError(s.st.Delete(ctx, "models", "key"))
	_, err := s.st.Get(ctx, "models", "key")
	s.ErrorIs(err, domain.ErrNotFound)

	// Key is free again.
	s.NoError(s.st.Insert(ctx, "models", "key", bson.M{"name": "b"}))
}

func (s *StoreTestSuite) TestNextSequence() {
	for i := int64(1); i <= 3; i++ {
		n, err := s.st.NextSequence(ctx, "models")
		s.NoError(err)
		s.Equal(i, n)
	}
	n, err := s.st.NextSequence(ctx, "others")
	s.NoError(err)
	s.Equal(int64(1), n)
}

func (s *StoreTestSuite) TestKeys() {
	s.ErrorIs(s.st.Insert(ctx, "models", nil, bson.M{}), domain.ErrNoPrimaryKey)
	_, err := s.st.Get(ctx, "models", 1.5)
	s.ErrorIs(err, domain.ErrUnsupportedValue)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{newStore: func(*testing.T) domain.Store {
		return NewMemory()
	}})
}

func TestRedisStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{newStore: func(t *testing.T) domain.Store {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		return NewRedis(client, WithPrefix("test"))
	}})
}

func TestRedisKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	st := NewRedis(client, WithPrefix("app"))
	if err := st.Insert(ctx, "models", 5, bson.M{"id": 5}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.NextSequence(ctx, "models"); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"app:models", "app:models:order", "app:models:seq"} {
		if !mr.Exists(key) {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestMemoryCanceled(t *testing.T) {
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := NewMemory().List(canceled, "models"); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
