package structure

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is a parsed `model` struct tag.
type Tag struct {
	// Name is the first tag element. Empty means the default name.
	Name string
	// Skip is set by the "-" tag.
	Skip bool
	// Flags holds options without values, like "pk" or "null".
	Flags map[string]bool
	// Values holds key=value options.
	Values map[string]string
}

// ParseTag parses a tag in the form "name,flag,key=value". Values cannot
// contain commas.
func ParseTag(raw string) (Tag, error) {
	tag := Tag{Flags: map[string]bool{}, Values: map[string]string{}}
	if raw == "-" {
		tag.Skip = true
		return tag, nil
	}
	if raw == "" {
		return tag, nil
	}
	parts := strings.Split(raw, ",")
	tag.Name = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		if key == "" {
			return tag, fmt.Errorf("empty option name in %q", part)
		}
		if hasValue {
			if _, dup := tag.Values[key]; dup {
				return tag, fmt.Errorf("option %s set twice", key)
			}
			tag.Values[key] = value
			continue
		}
		tag.Flags[key] = true
	}
	return tag, nil
}

// Has reports whether the flag is set.
func (t Tag) Has(flag string) bool {
	return t.Flags[flag]
}

// Value returns a key=value option.
func (t Tag) Value(key string) (string, bool) {
	v, ok := t.Values[key]
	return v, ok
}

// Int returns a key=value option parsed as a non-negative int. Missing
// options return 0.
func (t Tag) Int(key string) (int, error) {
	v, ok := t.Values[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("option %s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}
