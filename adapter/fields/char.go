package fields

import (
	"fmt"
	"net/mail"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	slugRegexp     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	commaIntRegexp = regexp.MustCompile(`^\d+(?:,\d+)*$`)
)

// CharField converts text. The email, URL, slug, IP address and comma
// separated integer fields are CharFields with an extra format check.
type CharField struct {
	base
	check func(string) error
}

// NewCharField returns a field for plain text.
func NewCharField(opts ...Option) *CharField {
	return &CharField{base: newBase(opts)}
}

// NewEmailField returns a text field that only accepts email addresses.
func NewEmailField(opts ...Option) *CharField {
	f := NewCharField(opts...)
	f.check = func(s string) error {
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return invalid("Enter a valid email address.")
		}
		return nil
	}
	return f
}

// NewURLField returns a text field that only accepts absolute URLs.
func NewURLField(opts ...Option) *CharField {
	f := NewCharField(opts...)
	f.check = func(s string) error {
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Host == "" {
			return invalid("Enter a valid URL.")
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "ftp", "ftps":
			return nil
		}
		return invalid("Enter a valid URL.")
	}
	return f
}

// NewSlugField returns a text field that only accepts letters, numbers,
// underscores and hyphens.
func NewSlugField(opts ...Option) *CharField {
	f := NewCharField(opts...)
	f.check = func(s string) error {
		if !slugRegexp.MatchString(s) {
			return invalid(`Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`)
		}
		return nil
	}
	return f
}

// NewIPAddressField returns a text field that only accepts IPv4 and IPv6
// addresses.
func NewIPAddressField(opts ...Option) *CharField {
	f := NewCharField(opts...)
	f.check = func(s string) error {
		if _, err := netip.ParseAddr(s); err != nil {
			return invalid("Enter a valid IPv4 or IPv6 address.")
		}
		return nil
	}
	return f
}

// NewCommaSeparatedIntegerField returns a text field that only accepts
// digits separated by commas.
func NewCommaSeparatedIntegerField(opts ...Option) *CharField {
	f := NewCharField(opts...)
	f.check = func(s string) error {
		if !commaIntRegexp.MatchString(s) {
			return invalid("Enter only digits separated by commas.")
		}
		return nil
	}
	return f
}

// ToInternalValue implements [domain.SerializerField]. Numbers are accepted
// and converted to text. Surrounding whitespace is removed.
func (f *CharField) ToInternalValue(data any) (any, error) {
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil, invalid("Not a valid string.")
		}
		s = *v
	default:
		if _, ok := asNumber(data); !ok {
			return nil, invalid("Not a valid string.")
		}
		s = fmt.Sprint(data)
	}
	s = strings.TrimSpace(s)

	if s == "" {
		if !f.opts.AllowBlank {
			return nil, invalid("This field may not be blank.")
		}
		return s, nil
	}
	if f.opts.MaxLength > 0 && utf8.RuneCountInString(s) > f.opts.MaxLength {
		return nil, invalid("Ensure this field has no more than %d characters.", f.opts.MaxLength)
	}
	if f.check != nil {
		if err := f.check(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ToRepresentation implements [domain.SerializerField].
func (f *CharField) ToRepresentation(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return fmt.Sprint(value), nil
}

// RunValidation implements [domain.SerializerField].
func (f *CharField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}
