package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Documents live in one hash per collection. A list next to it keeps the
// insertion order and a plain key holds the sequence counter.
var (
	insertScript = redis.NewScript(`
if redis.call("HSETNX", KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
return 1
`)
	replaceScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)
	deleteScript = redis.NewScript(`
if redis.call("HDEL", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("LREM", KEYS[2], 0, ARGV[1])
return 1
`)
)

// Redis implements [domain.Store] over a Redis server.
type Redis struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewRedis returns a domain.Store that keeps documents in the server behind
// client.
func NewRedis(client redis.UniversalClient, opts ...Option) domain.Store {
	o := newOptions(opts)
	return &Redis{
		client: client,
		prefix: o.prefix,
		logger: o.logger,
	}
}

func (r *Redis) docsKey(coll string) string  { return r.prefix + ":" + coll }
func (r *Redis) orderKey(coll string) string { return r.prefix + ":" + coll + ":order" }
func (r *Redis) seqKey(coll string) string   { return r.prefix + ":" + coll + ":seq" }

// Insert implements [domain.Store].
func (r *Redis) Insert(ctx context.Context, coll string, pk any, doc bson.M) error {
	key, err := Key(pk)
	if err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}
	keys := []string{r.docsKey(coll), r.orderKey(coll)}
	n, err := insertScript.Run(ctx, r.client, keys, key, b).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDuplicateKey
	}
	r.logger.Debug("document inserted", zap.String("collection", coll), zap.String("pk", key))
	return nil
}

// Get implements [domain.Store].
func (r *Redis) Get(ctx context.Context, coll string, pk any) (bson.M, error) {
	key, err := Key(pk)
	if err != nil {
		return nil, err
	}
	b, err := r.client.HGet(ctx, r.docsKey(coll), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return decode(b)
}

// List implements [domain.Store].
func (r *Redis) List(ctx context.Context, coll string) ([]bson.M, error) {
	keys, err := r.client.LRange(ctx, r.orderKey(coll), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]bson.M, 0, len(keys))
	if len(keys) == 0 {
		return docs, nil
	}
	values, err := r.client.HMGet(ctx, r.docsKey(coll), keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// removed between both calls
			r.logger.Debug("skipping missing document", zap.String("collection", coll), zap.String("pk", keys[i]))
			continue
		}
		doc, err := decode([]byte(s))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Replace implements [domain.Store].
func (r *Redis) Replace(ctx context.Context, coll string, pk any, doc bson.M) error {
	key, err := Key(pk)
	if err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}
	n, err := replaceScript.Run(ctx, r.client, []string{r.docsKey(coll)}, key, b).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete implements [domain.Store].
func (r *Redis) Delete(ctx context.Context, coll string, pk any) error {
	key, err := Key(pk)
	if err != nil {
		return err
	}
	keys := []string{r.docsKey(coll), r.orderKey(coll)}
	n, err := deleteScript.Run(ctx, r.client, keys, key).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug("document deleted", zap.String("collection", coll), zap.String("pk", key))
	return nil
}

// NextSequence implements [domain.Store].
func (r *Redis) NextSequence(ctx context.Context, coll string) (int64, error) {
	return r.client.Incr(ctx, r.seqKey(coll)).Result()
}
