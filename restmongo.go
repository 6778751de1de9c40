// Package restmongo lets a REST serialization layer work with MongoDB-shaped
// Go models.
//
// Models are plain structs described by "model" struct tags. The package
// builds their metadata (fields, primary key, relations and embedded
// documents), converts instances to and from JSON-friendly representations
// with DRF-style validation, and maps them to BSON documents.
//
// The basic usage starts with a [MetaManager], created by [NewMetaManager],
// which is shared by serializers and deserializers. Register every model
// with [MetaManager.Register] up front so reverse relations are complete.
package restmongo

import (
	"github.com/redis/go-redis/v9"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/document"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/fields"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/metamanager"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/store"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
)

var (
	// ErrValidation is matched by every [*ValidationError].
	ErrValidation = domain.ErrValidation
	// ErrTargetNil is returned when a nil value is given as target to
	// decode data into.
	ErrTargetNil = domain.ErrTargetNil
	// ErrNonPointer is returned when the target to decode data into is not
	// a pointer.
	ErrNonPointer = domain.ErrNonPointer
	// ErrNotFound is returned by a [Store] when no document has the given
	// primary key.
	ErrNotFound = domain.ErrNotFound
	// ErrDuplicateKey is returned by [Store.Insert] when the primary key
	// is already in use.
	ErrDuplicateKey = domain.ErrDuplicateKey
	// ErrNoPrimaryKey is returned when a model has no stored primary key.
	ErrNoPrimaryKey = domain.ErrNoPrimaryKey
	// ErrUnknownField is returned when serializer options name a field the
	// model does not declare.
	ErrUnknownField = domain.ErrUnknownField
)

// ErrNotModel is returned when a value is not a struct or pointer to struct.
type ErrNotModel = domain.ErrNotModel

// ErrFieldTag is returned for malformed "model" struct tags.
type ErrFieldTag = domain.ErrFieldTag

// ErrMultiplePK is returned when a model declares more than one primary key.
type ErrMultiplePK = domain.ErrMultiplePK

// ErrUnknownModel is returned when a label does not match a registered model.
type ErrUnknownModel = domain.ErrUnknownModel

// ErrDecode wraps third party decoding errors.
type ErrDecode = domain.ErrDecode

// ValidationError holds field-level validation messages. It marshals to the
// JSON shape REST clients expect.
type ValidationError = domain.ValidationError

// Model can be implemented by model structs to declare a label, a
// collection name or the abstract flag.
type Model = domain.Model

// ModelOptions are the model-level options returned by [Model].
type ModelOptions = domain.ModelOptions

// MetaManager gives access to model metadata and field info summaries.
type MetaManager = domain.MetaManager

// FieldInfo is the summary of a model's fields, primary key, relations and
// embedded documents.
type FieldInfo = domain.FieldInfo

// ModelMeta is the metadata of one model.
type ModelMeta = domain.ModelMeta

// Store persists whole documents by collection and primary key.
type Store = domain.Store

// ModelSerializer converts model instances from and to their external
// representation.
type ModelSerializer = serializer.ModelSerializer

// NewMetaManager returns a new [MetaManager]. Options:
//
// - [domain.WithManagerRegistry]: sets the registry holding known models.
//
// - [domain.WithManagerIntrospector]: sets how struct types are read.
//
// - [domain.WithManagerLogger]: sets the logger.
func NewMetaManager(options ...domain.MetaManagerOption) MetaManager {
	return metamanager.NewMetaManager(options...)
}

// GetFieldInfo returns the field info summary of model using a new
// [MetaManager]. Reverse relations come from registered models: related
// lists the models that may point at model, and models reachable from model
// are registered as well.
func GetFieldInfo(model any, related ...any) (*FieldInfo, error) {
	manager := NewMetaManager()
	if err := manager.Register(related...); err != nil {
		return nil, err
	}
	return manager.GetFieldInfo(model)
}

// NewModelSerializer returns the serializer of model. Options:
//
// - [domain.WithSerializerFields]: restricts the serializer to named fields.
//
// - [domain.WithSerializerExclude]: removes named fields.
//
// - [domain.WithSerializerReadOnly]: marks named fields as read-only.
//
// - [domain.WithSerializerDecoder]: sets how validated data is written.
//
// - [domain.WithSerializerLogger]: sets the logger.
func NewModelSerializer(manager MetaManager, model any, options ...domain.SerializerOption) (*ModelSerializer, error) {
	return serializer.NewModelSerializer(manager, model, options...)
}

// NewDeserializer returns a [domain.Deserializer] that reads JSON into
// models, validating it through their serializers.
func NewDeserializer(manager MetaManager, options ...domain.SerializerOption) domain.Deserializer {
	return deserializer.NewDeserializer(manager, options...)
}

// NewObjectIDField returns the serializer field converting ObjectIds from and
// to their hex representation.
func NewObjectIDField(options ...fields.Option) *fields.ObjectIDField {
	return fields.NewObjectIDField(options...)
}

// NewMapper returns a mapper between model instances and BSON documents.
func NewMapper(manager MetaManager) *document.Mapper {
	return document.NewMapper(manager)
}

// NewMemoryStore returns an in-memory [Store].
func NewMemoryStore(options ...store.Option) Store {
	return store.NewMemory(options...)
}

// NewRedisStore returns a [Store] over a Redis server.
func NewRedisStore(client redis.UniversalClient, options ...store.Option) Store {
	return store.NewRedis(client, options...)
}
