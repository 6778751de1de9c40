// Package deserializer contains the default [domain.Deserializer]
// implementation, which reads JSON input and writes validated data into model
// instances.
package deserializer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"reflect"
	"sync"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
)

// NewDeserializer returns a new instance of domain.Deserializer. Model
// serializers are built with the given options and cached per model type.
func NewDeserializer(manager domain.MetaManager, opts ...domain.SerializerOption) domain.Deserializer {
	return &Deserializer{
		manager: manager,
		opts:    opts,
	}
}

// Deserializer implements [domain.Deserializer].
type Deserializer struct {
	manager     domain.MetaManager
	opts        []domain.SerializerOption
	serializers sync.Map
}

// Deserialize implements [domain.Deserializer]. Every writable field must be
// present in b.
func (d *Deserializer) Deserialize(ctx context.Context, b []byte, target any) error {
	return d.Decode(ctx, bytes.NewReader(b), target, false)
}

// Decode reads one JSON object from r and writes it into target. With
// partial set, missing fields keep their current values. Reading stops when
// ctx is done.
func (d *Deserializer) Decode(ctx context.Context, r io.Reader, target any, partial bool) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if target == nil {
		return domain.ErrTargetNil
	}

	dec := json.NewDecoder(contextio.NewReader(ctx, r))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return err
	}

	if p, ok := target.(*map[string]any); ok {
		m, ok := data.(map[string]any)
		if !ok {
			return domain.ErrDecode{Source: data, Target: target}
		}
		*p = m
		return nil
	}

	if reflect.ValueOf(target).Kind() != reflect.Pointer {
		return domain.ErrNonPointer
	}
	ser, err := d.serializer(target)
	if err != nil {
		return err
	}
	_, err = ser.Update(target, data, partial)
	return err
}

func (d *Deserializer) serializer(target any) (*serializer.ModelSerializer, error) {
	t := reflect.TypeOf(target)
	if s, ok := d.serializers.Load(t); ok {
		return s.(*serializer.ModelSerializer), nil
	}
	s, err := serializer.NewModelSerializer(d.manager, target, d.opts...)
	if err != nil {
		return nil, err
	}
	actual, _ := d.serializers.LoadOrStore(t, s)
	return actual.(*serializer.ModelSerializer), nil
}
