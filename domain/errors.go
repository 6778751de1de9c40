package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

var (
	// ErrTargetNil is returned when the passed target, which should be a
	// pointer, is passed as a nil value.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when a pointer was expected.
	ErrNonPointer = errors.New("target is not a pointer")
	// ErrValidation is matched by every [*ValidationError] through
	// [errors.Is].
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned by [Store] when no document has the given
	// key.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned by [Store.Insert] when the key is already
	// in use.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNoPrimaryKey is returned when an operation needs a primary key
	// backed by a struct field and the model has none.
	ErrNoPrimaryKey = errors.New("model has no stored primary key")
	// ErrUnsupportedValue is returned when an internal value cannot be
	// represented by a serializer field.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrUnknownField is returned when a serializer is configured with a
	// field the model does not declare.
	ErrUnknownField = errors.New("unknown field")
)

// ErrNotModel is returned when a value that is not a struct, nor a pointer to
// one, is used as a model.
type ErrNotModel struct {
	Type reflect.Type
}

func (e ErrNotModel) Error() string {
	return fmt.Sprintf("%v is not a model struct", e.Type)
}

// ErrFieldTag is returned when a `model` struct tag cannot be parsed.
type ErrFieldTag struct {
	Model  string
	Field  string
	Tag    string
	Reason string
}

func (e ErrFieldTag) Error() string {
	return fmt.Sprintf("model %s, field %s: invalid tag %q: %s", e.Model, e.Field, e.Tag, e.Reason)
}

// ErrMultiplePK is returned when a model declares more than one primary key.
type ErrMultiplePK struct {
	Model  string
	Fields []string
}

func (e ErrMultiplePK) Error() string {
	return fmt.Sprintf("model %s declares more than one primary key: %s", e.Model, strings.Join(e.Fields, ", "))
}

// ErrModelRegistered is returned when two models share the same label.
type ErrModelRegistered struct {
	Label string
}

func (e ErrModelRegistered) Error() string {
	return fmt.Sprintf("model %s is already registered", e.Label)
}

// ErrUnknownModel is returned when a label does not match any registered
// model.
type ErrUnknownModel struct {
	Label string
}

func (e ErrUnknownModel) Error() string {
	return fmt.Sprintf("unknown model: %s", e.Label)
}

// ErrDecode is returned when a source value cannot be decoded into a target.
type ErrDecode struct {
	Source any
	Target any
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}

// ValidationError holds the messages of a failed validation. Field-level
// errors carry Messages; serializer-level errors carry one nested error per
// failing field in Fields, and non-field messages in Messages. Items of a
// list are keyed by their position.
type ValidationError struct {
	Messages []string
	Fields   map[string]*ValidationError
}

// NonFieldErrorsKey is the key used for non-field messages when a
// [ValidationError] with nested fields is rendered as JSON.
const NonFieldErrorsKey = "non_field_errors"

// NewValidationError returns a field-level validation error.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AddField attaches the error of a nested field.
func (e *ValidationError) AddField(name string, err *ValidationError) {
	if e.Fields == nil {
		e.Fields = make(map[string]*ValidationError)
	}
	e.Fields[name] = err
}

// HasErrors reports whether the error holds any message.
func (e *ValidationError) HasErrors() bool {
	return e != nil && (len(e.Messages) > 0 || len(e.Fields) > 0)
}

// Field returns the nested error for a dotted path, like
// "embed_field.int_field".
func (e *ValidationError) Field(path string) (*ValidationError, bool) {
	cur := e
	for part := range strings.SplitSeq(path, ".") {
		next, ok := cur.Fields[part]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (e *ValidationError) Error() string {
	var lines []string
	e.collect("", &lines)
	return strings.Join(lines, "; ")
}

func (e *ValidationError) collect(prefix string, lines *[]string) {
	for _, m := range e.Messages {
		if prefix == "" {
			*lines = append(*lines, m)
		} else {
			*lines = append(*lines, prefix+": "+m)
		}
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		e.Fields[k].collect(name, lines)
	}
}

// Is makes every ValidationError match [ErrValidation].
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MarshalJSON renders the error the way REST clients expect: a list of
// messages for a field, or an object keyed by field name.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	if len(e.Fields) == 0 {
		msgs := e.Messages
		if msgs == nil {
			msgs = []string{}
		}
		return json.Marshal(msgs)
	}
	out := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = v
	}
	if len(e.Messages) > 0 {
		out[NonFieldErrorsKey] = e.Messages
	}
	return json.Marshal(out)
}
