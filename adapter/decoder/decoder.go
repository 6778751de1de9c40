// Package decoder contains the default [domain.Decoder] implementation, which
// decodes maps, BSON documents and model instances into model structs.
package decoder

import (
	"fmt"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/pkg/structure"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decoder implements domain.Decoder.
type Decoder struct {
	zeroFields bool
}

// Option configures behavior through the functional options pattern.
type Option func(*Decoder)

// WithZeroFields zeroes the target before decoding, so fields missing from
// the source are reset instead of kept.
func WithZeroFields() Option {
	return func(d *Decoder) {
		d.zeroFields = true
	}
}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder(opts ...Option) domain.Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode implements domain.Decoder.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}

	source = d.adjustDoc(source)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    structure.TagName,
		Result:     target,
		ZeroFields: d.zeroFields,
		MatchName:  matchName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			objectIDHook,
			uuidHook,
			timeHook,
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		errDec := domain.ErrDecode{Source: source, Target: target}
		return fmt.Errorf("%w: %w", errDec, err)
	}
	return nil
}

// matchName matches untagged Go field names against snake_case keys.
func matchName(mapKey, fieldName string) bool {
	return mapKey == fieldName ||
		strings.EqualFold(mapKey, fieldName) ||
		structure.SnakeCase(fieldName) == mapKey
}

// adjustDoc turns BSON specific containers into plain maps and lists.
func (d *Decoder) adjustDoc(value any) any {
	switch t := value.(type) {
	case bson.D:
		doc := make(map[string]any, len(t))
		for _, e := range t {
			doc[e.Key] = d.adjustDoc(e.Value)
		}
		return doc
	case bson.M:
		doc := make(map[string]any, len(t))
		for k, v := range t {
			doc[k] = d.adjustDoc(v)
		}
		return doc
	case map[string]any:
		doc := make(map[string]any, len(t))
		for k, v := range t {
			doc[k] = d.adjustDoc(v)
		}
		return doc
	case bson.A:
		lst := make([]any, len(t))
		for n, v := range t {
			lst[n] = d.adjustDoc(v)
		}
		return lst
	case []any:
		lst := make([]any, len(t))
		for n, v := range t {
			lst[n] = d.adjustDoc(v)
		}
		return lst
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return value
	}
}
