// Package domain contains domain-specific interfaces, descriptor types and
// functional options for restmongo.
//
// This package defines the core interfaces that must be implemented by
// adapters, as well as the descriptors produced by model introspection and
// the options used to configure serializers, stores and registries.
package domain

import (
	"context"
	"iter"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model can be implemented by model structs to declare model-level options.
// Structs that do not implement it use the defaults described in
// [ModelOptions].
type Model interface {
	ModelOptions() ModelOptions
}

// Introspector builds model metadata from a Go struct type.
type Introspector interface {
	// Introspect returns the metadata of the given struct type (or pointer
	// to struct type).
	Introspect(reflect.Type) (*ModelMeta, error)
}

// Registry holds the metadata of every known model.
type Registry interface {
	// Register adds a model to the registry. Registering two models under
	// the same label fails.
	Register(*ModelMeta) error
	// Get returns the model registered under the given label.
	Get(label string) (*ModelMeta, bool)
	// GetByType returns the model registered for the given struct type.
	GetByType(reflect.Type) (*ModelMeta, bool)
	// All returns every registered model ordered by label.
	All() iter.Seq[*ModelMeta]
	// Len returns the number of registered models.
	Len() int
}

// MetaManager gives access to model metadata and builds field info
// summaries.
type MetaManager interface {
	// GetModelMeta returns the metadata of a model instance, registering
	// it when needed.
	GetModelMeta(model any) (*ModelMeta, error)
	// MetaForType is the same as GetModelMeta, but receives a type.
	MetaForType(reflect.Type) (*ModelMeta, error)
	// Register adds models, and every model they reach, to the manager.
	Register(models ...any) error
	// GetFieldInfo returns a fresh field info summary for a model
	// instance. Reverse relations are collected from the registered models,
	// so models declaring relations to it must be registered beforehand.
	GetFieldInfo(model any) (*FieldInfo, error)
}

// SerializerField converts a single value between its external
// representation and its internal Go value.
type SerializerField interface {
	// ToInternalValue converts external data into the internal value. It
	// returns a [*ValidationError] if data is not acceptable.
	ToInternalValue(data any) (any, error)
	// ToRepresentation converts an internal value into its external
	// representation.
	ToRepresentation(value any) (any, error)
	// RunValidation handles [Empty] and nil data before calling
	// ToInternalValue and running the field validators.
	RunValidation(data any) (any, error)
	// ReadOnly reports whether the field is ignored on input.
	ReadOnly() bool
	// Required reports whether the field must be present on input.
	Required() bool
}

// Decoder converts between different data representations.
type Decoder interface {
	// Decode converts from one data format to another.
	Decode(any, any) error
}

// Serializer converts models to bytes.
type Serializer interface {
	// Serialize converts a model instance to bytes.
	Serialize(context.Context, any) ([]byte, error)
}

// Deserializer converts bytes back to models.
type Deserializer interface {
	// Deserialize converts bytes back to a model instance.
	Deserialize(context.Context, []byte, any) error
}

// IDGenerator generates new document identifiers.
type IDGenerator interface {
	// GenerateID returns a new ObjectID.
	GenerateID() (primitive.ObjectID, error)
}

// TimeGetter provides current time for timestamping operations.
type TimeGetter interface {
	// GetTime returns the current time.
	GetTime() time.Time
}

// Store persists whole documents by collection and primary key.
type Store interface {
	// Insert saves a new document. It fails with [ErrDuplicateKey] if the
	// key is already in use.
	Insert(ctx context.Context, collection string, pk any, doc bson.M) error
	// Get returns the document stored under pk, or [ErrNotFound].
	Get(ctx context.Context, collection string, pk any) (bson.M, error)
	// List returns every document of a collection.
	List(ctx context.Context, collection string) ([]bson.M, error)
	// Replace overwrites an existing document, or returns [ErrNotFound].
	Replace(ctx context.Context, collection string, pk any, doc bson.M) error
	// Delete removes a document, or returns [ErrNotFound].
	Delete(ctx context.Context, collection string, pk any) error
	// NextSequence returns the next value of the collection counter, used
	// for auto incremented keys.
	NextSequence(ctx context.Context, collection string) (int64, error)
}
