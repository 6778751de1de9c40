// Package registry contains the default [domain.Registry] implementation,
// which keeps models in a unique AVL tree ordered by label.
package registry

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"
	"sync"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/bst/adapter/avl"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.uber.org/zap"
)

type labelComparer struct{}

// CompareKeys implements bst.Comparer.
func (labelComparer) CompareKeys(a string, b string) (int, error) {
	return strings.Compare(a, b), nil
}

// CompareValues implements bst.Comparer.
func (labelComparer) CompareValues(a *domain.ModelMeta, b *domain.ModelMeta) (bool, error) {
	return a.Type == b.Type, nil
}

// Registry implements [domain.Registry].
type Registry struct {
	mu     sync.RWMutex
	tree   bst.BST[string, *domain.ModelMeta]
	types  map[reflect.Type]*domain.ModelMeta
	logger *zap.Logger
}

// Option configures behavior through the functional options pattern.
type Option func(*Registry)

// WithLogger sets the logger that receives registration events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry returns a new implementation of domain.Registry.
func NewRegistry(opts ...Option) domain.Registry {
	r := &Registry{
		tree:   avl.NewBST(true, 8, bst.Comparer[string, *domain.ModelMeta](labelComparer{})),
		types:  make(map[reflect.Type]*domain.ModelMeta),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register implements [domain.Registry].
func (r *Registry) Register(meta *domain.ModelMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[meta.Type]; ok {
		if existing.Label == meta.Label {
			return nil
		}
		return domain.ErrModelRegistered{Label: meta.Label}
	}
	if found, err := r.tree.Search(meta.Label); err != nil {
		return err
	} else if found != nil && len(found.Values()) > 0 {
		return domain.ErrModelRegistered{Label: meta.Label}
	}

	if err := r.tree.Insert(meta.Label, meta); err != nil {
		if e := new(bst.ErrUniqueViolated); errors.As(err, e) {
			return fmt.Errorf("%w: %w", domain.ErrModelRegistered{Label: meta.Label}, err)
		}
		return err
	}
	r.types[meta.Type] = meta

	r.logger.Debug("model registered",
		zap.String("label", meta.Label),
		zap.Stringer("type", meta.Type),
		zap.Int("fields", len(meta.Fields)),
	)
	return nil
}

// Get implements [domain.Registry].
func (r *Registry) Get(label string) (*domain.ModelMeta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, err := r.tree.Search(label)
	if err != nil || found == nil {
		return nil, false
	}
	values := found.Values()
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

// GetByType implements [domain.Registry].
func (r *Registry) GetByType(t reflect.Type) (*domain.ModelMeta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	meta, ok := r.types[t]
	return meta, ok
}

// All implements [domain.Registry]. The sequence is a snapshot taken when All
// is called.
func (r *Registry) All() iter.Seq[*domain.ModelMeta] {
	r.mu.RLock()
	var metas []*domain.ModelMeta
	for meta := range r.tree.GetAll() {
		metas = append(metas, meta)
	}
	r.mu.RUnlock()

	return func(yield func(*domain.ModelMeta) bool) {
		for _, meta := range metas {
			if !yield(meta) {
				return
			}
		}
	}
}

// Len implements [domain.Registry].
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.GetNumberOfKeys()
}
