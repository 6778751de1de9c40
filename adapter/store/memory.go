package store

import (
	"context"
	"slices"
	"sync"

	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type collection struct {
	docs  map[string][]byte
	order []string
	seq   int64
}

// Memory implements [domain.Store] in memory. Documents are listed in
// insertion order.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*collection
	logger      *zap.Logger
}

// NewMemory returns a new in-memory implementation of domain.Store.
func NewMemory(opts ...Option) domain.Store {
	o := newOptions(opts)
	return &Memory{
		collections: make(map[string]*collection),
		logger:      o.logger,
	}
}

func (m *Memory) collection(name string) *collection {
	c, ok := m.collections[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		m.collections[name] = c
	}
	return c
}

// Insert implements [domain.Store].
func (m *Memory) Insert(ctx context.Context, coll string, pk any, doc bson.M) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := Key(pk)
	if err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(coll)
	if _, ok := c.docs[key]; ok {
		return domain.ErrDuplicateKey
	}
	c.docs[key] = b
	c.order = append(c.order, key)
	m.logger.Debug("document inserted", zap.String("collection", coll), zap.String("pk", key))
	return nil
}

// Get implements [domain.Store].
func (m *Memory) Get(ctx context.Context, coll string, pk any) (bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := Key(pk)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[coll]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b, ok := c.docs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return decode(b)
}

// List implements [domain.Store].
func (m *Memory) List(ctx context.Context, coll string) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[coll]
	if !ok {
		return []bson.M{}, nil
	}
	docs := make([]bson.M, 0, len(c.order))
	for _, key := range c.order {
		doc, err := decode(c.docs[key])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Replace implements [domain.Store].
func (m *Memory) Replace(ctx context.Context, coll string, pk any, doc bson.M) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := Key(pk)
	if err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[coll]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := c.docs[key]; !ok {
		return domain.ErrNotFound
	}
	c.docs[key] = b
	return nil
}

// Delete implements [domain.Store].
func (m *Memory) Delete(ctx context.Context, coll string, pk any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := Key(pk)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[coll]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := c.docs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(c.docs, key)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	m.logger.Debug("document deleted", zap.String("collection", coll), zap.String("pk", key))
	return nil
}

// NextSequence implements [domain.Store].
func (m *Memory) NextSequence(ctx context.Context, coll string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(coll)
	c.seq++
	return c.seq, nil
}
