// Package structure contains type-related operations, such as iterating over a
// value of type any, parsing model tags and converting numbers.
package structure

import (
	"errors"
	"iter"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-reflect"
)

// TagName is the struct tag read by every restmongo component.
const TagName = "model"

var (
	// ErrNilObj may be returned by [Seq] or [Seq2] when a nil value is
	// passed as argument.
	ErrNilObj = errors.New("nil object")
)

// ErrorNonObject is returned by [Seq2] when a value that is neither a struct
// nor a map with string keys is passed as argument.
type ErrorNonObject struct {
	Type reflect.Type
}

func (e ErrorNonObject) Error() string {
	return "expected an object, got " + e.Type.String()
}

// ErrorNonList is returned by [Seq] when a value that is neither a slice
// nor a array is passed as argument.
type ErrorNonList struct {
	Type reflect.Type
}

func (e ErrorNonList) Error() string {
	return "expected a list, got " + e.Type.String()
}

// Seq2 returns an iterator over the passed object, which can be a map with
// string keys or a struct (or pointer to one). Struct fields are named after
// their `model` tag, or the snake_case field name.
func Seq2(obj any) (iter.Seq2[string, any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	if i, length := checkMaps(obj); i != nil {
		return i, length, nil
	}
	return iterReflect(obj)
}

func checkMaps(obj any) (iter.Seq2[string, any], int) {
	switch t := obj.(type) {
	case map[string]any:
		return iterMap(t), len(t)
	case map[string]string:
		return iterMap(t), len(t)
	case map[string]bool:
		return iterMap(t), len(t)
	case map[string]int:
		return iterMap(t), len(t)
	case map[string]int64:
		return iterMap(t), len(t)
	case map[string]float64:
		return iterMap(t), len(t)
	case map[string]time.Time:
		return iterMap(t), len(t)
	case map[string][]any:
		return iterMap(t), len(t)
	case map[string]map[string]any:
		return iterMap(t), len(t)
	}
	return nil, 0
}

func iterReflect(obj any) (iter.Seq2[string, any], int, error) {
	v := reflect.ValueNoEscapeOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, 0, ErrNilObj
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			return iterReflectMap(v), v.Len(), nil
		}
	case reflect.Struct:
		i, l := iterReflectStruct(v)
		return i, l, nil
	}
	return nil, 0, ErrorNonObject{Type: v.Type()}
}

func iterReflectMap(v reflect.Value) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		iter := v.MapRange()
		for iter.Next() {
			if !yield(iter.Key().String(), iter.Value().Interface()) {
				return
			}
		}
	}
}

func iterReflectStruct(v reflect.Value) (iter.Seq2[string, any], int) {
	type kv struct {
		Key   string
		Value any
	}
	fields := make([]kv, 0, v.NumField())
	typ := v.Type()
	for n := range typ.NumField() {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		tag, err := ParseTag(field.Tag.Get(TagName))
		if err != nil || tag.Skip {
			continue
		}
		name := tag.Name
		if name == "" {
			name = SnakeCase(field.Name)
		}
		fields = append(fields, kv{Key: name, Value: v.Field(n).Interface()})
	}
	return func(yield func(string, any) bool) {
		for _, field := range fields {
			if !yield(field.Key, field.Value) {
				return
			}
		}
	}, len(fields)
}

func iterMap[T any](m map[string]T) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Seq returns an iterator over a slice or array of any type.
func Seq(obj any) (iter.Seq[any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	switch t := obj.(type) {
	case []any:
		return iterSlice(t), len(t), nil
	case []map[string]any:
		return iterSlice(t), len(t), nil
	case []string:
		return iterSlice(t), len(t), nil
	case string, []byte:
		return nil, 0, ErrorNonList{Type: reflect.TypeOf(obj)}
	}

	v := reflect.ValueNoEscapeOf(obj)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for n := range v.Len() {
				if !yield(v.Index(n).Interface()) {
					return
				}
			}
		}, v.Len(), nil
	}
	return nil, 0, ErrorNonList{Type: v.Type()}
}

func iterSlice[T any](m []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range m {
			if !yield(v) {
				return
			}
		}
	}
}

// SnakeCase converts CamelCase to snake_case, keeping acronyms together
// (HTTPRequest -> http_request, ID -> id).
func SnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// AsInteger converts any built-in number to int64 and returns a flag that
// informs if the argument is a valid integer.
func AsInteger(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float32:
		if trunc := math.Trunc(float64(t)); trunc == float64(t) {
			return int64(trunc), true
		}
		return 0, false
	case float64:
		if trunc := math.Trunc(t); trunc == t && !math.IsInf(t, 0) {
			return int64(trunc), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsFloat converts any built-in number to float64.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	if i, ok := AsInteger(v); ok {
		return float64(i), true
	}
	return 0, false
}
