// Package httpapi exposes models as REST resources. Every resource answers
// list, create, retrieve, update, partial update and delete requests,
// validating input through a model serializer and keeping documents in a
// [domain.Store].
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/dolmen-go/contextio"
	"github.com/go-chi/chi/v5"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/document"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/fields"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pkParam = "pk"

// Resource serves one model.
type Resource struct {
	meta       *domain.ModelMeta
	serializer *serializer.ModelSerializer
	updater    *serializer.ModelSerializer
	mapper     *document.Mapper
	store      domain.Store
	ids        domain.IDGenerator
	pk         domain.SerializerField
	logger     *zap.Logger
}

// NewResource returns the resource of model. Models without a stored
// primary key cannot be served and fail with [domain.ErrNoPrimaryKey].
func NewResource(manager domain.MetaManager, model any, store domain.Store, opts ...Option) (*Resource, error) {
	o := newOptions(opts)

	meta, err := manager.GetModelMeta(model)
	if err != nil {
		return nil, err
	}
	if meta.PK == nil || meta.PK.Virtual() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoPrimaryKey, meta.Label)
	}
	pk, err := fields.ForModelField(meta.PK)
	if err != nil {
		return nil, err
	}
	serOpts := append(slices.Clone(o.serializer), domain.WithSerializerLogger(o.logger))
	ser, err := serializer.NewModelSerializer(manager, model, serOpts...)
	if err != nil {
		return nil, err
	}
	// documents are stored under their key, so updates cannot change it
	updater, err := serializer.NewModelSerializer(manager, model, append(serOpts, domain.WithSerializerReadOnly(meta.PK.Name))...)
	if err != nil {
		return nil, err
	}
	ids := o.ids
	if ids == nil {
		ids = idgenerator.NewIDGenerator()
	}
	return &Resource{
		meta:       meta,
		serializer: ser,
		updater:    updater,
		mapper:     document.NewMapper(manager),
		store:      store,
		ids:        ids,
		pk:         pk,
		logger:     o.logger.With(zap.String("model", meta.Label)),
	}, nil
}

// Path returns the path the resource is mounted on.
func (r *Resource) Path() string {
	return "/" + r.meta.Collection()
}

// Routes returns the handler of the resource, relative to its path.
func (r *Resource) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.list)
	router.Post("/", r.create)
	router.Route("/{"+pkParam+"}", func(router chi.Router) {
		router.Get("/", r.retrieve)
		router.Put("/", r.update(false))
		router.Patch("/", r.update(true))
		router.Delete("/", r.destroy)
	})
	return router
}

func (r *Resource) list(w http.ResponseWriter, req *http.Request) {
	docs, err := r.store.List(req.Context(), r.meta.Collection())
	if err != nil {
		r.fail(w, err)
		return
	}
	instances := make([]any, 0, len(docs))
	for _, doc := range docs {
		instance := r.meta.New()
		if err := r.mapper.FromDocument(doc, instance); err != nil {
			r.fail(w, err)
			return
		}
		instances = append(instances, instance)
	}
	r.respond(req.Context(), w, http.StatusOK, instances)
}

func (r *Resource) create(w http.ResponseWriter, req *http.Request) {
	data, err := readBody(req)
	if err != nil {
		r.fail(w, err)
		return
	}
	instance, err := r.serializer.Create(data)
	if err != nil {
		r.fail(w, err)
		return
	}
	pk, err := r.assignPK(req.Context(), instance)
	if err != nil {
		r.fail(w, err)
		return
	}
	doc, err := r.mapper.ToDocument(instance)
	if err != nil {
		r.fail(w, err)
		return
	}
	if err := r.store.Insert(req.Context(), r.meta.Collection(), pk, doc); err != nil {
		r.fail(w, err)
		return
	}
	r.logger.Debug("created", zap.Any("pk", pk))
	r.respond(req.Context(), w, http.StatusCreated, instance)
}

// assignPK fills generated primary keys and returns the key of instance.
func (r *Resource) assignPK(ctx context.Context, instance any) (any, error) {
	current, _ := r.meta.PK.Value(instance)
	current = fields.Deref(current)

	var generated any
	switch r.meta.PK.Kind {
	case domain.KindObjectID:
		if id, ok := current.(primitive.ObjectID); ok && !id.IsZero() {
			return id, nil
		}
		id, err := r.ids.GenerateID()
		if err != nil {
			return nil, err
		}
		generated = id
	case domain.KindAuto, domain.KindBigAuto:
		n, err := r.store.NextSequence(ctx, r.meta.Collection())
		if err != nil {
			return nil, err
		}
		generated = n
	default:
		return current, nil
	}
	if err := r.meta.PK.SetValue(instance, generated); err != nil {
		return nil, err
	}
	return generated, nil
}

func (r *Resource) retrieve(w http.ResponseWriter, req *http.Request) {
	instance, _, err := r.load(req)
	if err != nil {
		r.fail(w, err)
		return
	}
	r.respond(req.Context(), w, http.StatusOK, instance)
}

func (r *Resource) update(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		instance, pk, err := r.load(req)
		if err != nil {
			r.fail(w, err)
			return
		}
		data, err := readBody(req)
		if err != nil {
			r.fail(w, err)
			return
		}
		if _, err := r.updater.Update(instance, data, partial); err != nil {
			r.fail(w, err)
			return
		}
		doc, err := r.mapper.ToDocument(instance)
		if err != nil {
			r.fail(w, err)
			return
		}
		if err := r.store.Replace(req.Context(), r.meta.Collection(), pk, doc); err != nil {
			r.fail(w, err)
			return
		}
		r.respond(req.Context(), w, http.StatusOK, instance)
	}
}

func (r *Resource) destroy(w http.ResponseWriter, req *http.Request) {
	pk, err := r.parsePK(req)
	if err != nil {
		r.fail(w, err)
		return
	}
	if err := r.store.Delete(req.Context(), r.meta.Collection(), pk); err != nil {
		r.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parsePK reads the primary key from the URL. Malformed keys cannot match
// any document and are reported as not found.
func (r *Resource) parsePK(req *http.Request) (any, error) {
	pk, err := r.pk.ToInternalValue(chi.URLParam(req, pkParam))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return pk, nil
}

func (r *Resource) load(req *http.Request) (any, any, error) {
	pk, err := r.parsePK(req)
	if err != nil {
		return nil, nil, err
	}
	doc, err := r.store.Get(req.Context(), r.meta.Collection(), pk)
	if err != nil {
		return nil, nil, err
	}
	instance := r.meta.New()
	if err := r.mapper.FromDocument(doc, instance); err != nil {
		return nil, nil, err
	}
	return instance, pk, nil
}

// errBadRequest marks request bodies that are not valid JSON.
var errBadRequest = errors.New("JSON parse error")

func readBody(req *http.Request) (any, error) {
	dec := json.NewDecoder(contextio.NewReader(req.Context(), req.Body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w - %w", errBadRequest, err)
	}
	return data, nil
}

func (r *Resource) respond(ctx context.Context, w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := r.serializer.Encode(ctx, w, value); err != nil {
		r.logger.Error("writing response", zap.Error(err))
	}
}

type detail struct {
	Detail string `json:"detail"`
}

func (r *Resource) fail(w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		body   any
		verr   *domain.ValidationError
	)
	switch {
	case errors.As(err, &verr):
		status, body = http.StatusBadRequest, verr
	case errors.Is(err, errBadRequest):
		status, body = http.StatusBadRequest, detail{err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		status, body = http.StatusNotFound, detail{"Not found."}
	case errors.Is(err, domain.ErrDuplicateKey):
		status, body = http.StatusConflict, detail{"An object with this primary key already exists."}
	default:
		r.logger.Error("request failed", zap.Error(err))
		body = detail{"A server error occurred."}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
