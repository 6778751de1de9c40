package fields

import (
	"strings"
	"time"
)

// Layouts used in representations.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05.999999999"
	DateTimeLayout = time.RFC3339Nano
)

var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999",
	}
	timeLayouts = []string{
		TimeLayout,
		"15:04",
	}
)

type temporalKind int

const (
	dateKind temporalKind = iota
	dateTimeKind
	timeKind
)

// TemporalField converts dates, times of day and date-times. All of them are
// stored as time.Time.
type TemporalField struct {
	base
	kind temporalKind
	loc  *time.Location
}

// NewDateField returns a field for calendar dates in YYYY-MM-DD form.
func NewDateField(opts ...Option) *TemporalField {
	return &TemporalField{base: newBase(opts), kind: dateKind, loc: time.UTC}
}

// NewDateTimeField returns a field for ISO 8601 date-times. Values without a
// zone are read as UTC.
func NewDateTimeField(opts ...Option) *TemporalField {
	return &TemporalField{base: newBase(opts), kind: dateTimeKind, loc: time.UTC}
}

// NewTimeField returns a field for times of day in hh:mm[:ss[.uuuuuu]] form.
func NewTimeField(opts ...Option) *TemporalField {
	return &TemporalField{base: newBase(opts), kind: timeKind, loc: time.UTC}
}

// ToInternalValue implements [domain.SerializerField].
func (f *TemporalField) ToInternalValue(data any) (any, error) {
	switch v := data.(type) {
	case time.Time:
		return f.truncate(v), nil
	case *time.Time:
		if v != nil {
			return f.truncate(*v), nil
		}
	case string:
		if t, ok := f.parse(strings.TrimSpace(v)); ok {
			return t, nil
		}
	}
	return nil, f.formatError()
}

func (f *TemporalField) parse(s string) (time.Time, bool) {
	var layouts []string
	switch f.kind {
	case dateKind:
		layouts = []string{DateLayout}
	case timeKind:
		layouts = timeLayouts
	default:
		layouts = dateTimeLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return f.truncate(t), true
		}
	}
	return time.Time{}, false
}

func (f *TemporalField) truncate(t time.Time) time.Time {
	switch f.kind {
	case dateKind:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, f.loc)
	case timeKind:
		return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), f.loc)
	}
	return t
}

func (f *TemporalField) formatError() error {
	switch f.kind {
	case dateKind:
		return invalid("Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	case timeKind:
		return invalid("Time has wrong format. Use one of these formats instead: hh:mm[:ss[.uuuuuu]].")
	}
	return invalid("Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z].")
}

// ToRepresentation implements [domain.SerializerField].
func (f *TemporalField) ToRepresentation(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		if p, isPtr := value.(*time.Time); isPtr && p != nil {
			t, ok = *p, true
		}
	}
	if !ok {
		return nil, unsupported(value, "time")
	}
	switch f.kind {
	case dateKind:
		return t.Format(DateLayout), nil
	case timeKind:
		return t.Format(TimeLayout), nil
	}
	return t.Format(DateTimeLayout), nil
}

// RunValidation implements [domain.SerializerField].
func (f *TemporalField) RunValidation(data any) (any, error) {
	return f.run(f, data)
}
