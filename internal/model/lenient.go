package model

import (
	"bytes"

	"github.com/spf13/cast"
)

// Text is a string field that also accepts numbers and booleans. Objects,
// arrays and null decode as the empty string; decoding never fails.
type Text string

// UnmarshalJSON coerces scalars to their textual form.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := codec.Unmarshal(trimmed, &s); err == nil {
			*t = Text(s)
		}
	case '{', '[', 'n':
	default:
		// Numbers keep their literal digits so large ids survive intact.
		*t = Text(trimmed)
	}
	return nil
}

// String returns the text as a plain string.
func (t Text) String() string {
	return string(t)
}

// TextList is a list of strings that tolerates a single scalar (read as a
// one-element list) and non-string items (coerced to text).
type TextList []string

// UnmarshalJSON never fails; unusable values decode as an empty list.
func (l *TextList) UnmarshalJSON(data []byte) error {
	*l = nil

	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch v := v.(type) {
	case []any:
		items, err := cast.ToStringSliceE(v)
		if err == nil {
			*l = items
		}
	case string:
		*l = TextList{v}
	case float64, bool:
		*l = TextList{cast.ToString(v)}
	}
	return nil
}

// List is a slice field that decodes as empty when the payload holds
// anything but an array.
type List[T any] []T

// UnmarshalJSON never fails; unusable values decode as an empty list.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	*l = nil
	if !isJSON(data, '[') {
		return nil
	}

	var items []T
	if err := codec.Unmarshal(data, &items); err != nil {
		return nil
	}
	*l = items
	return nil
}

// decodeObject fills dst from data when data is a JSON object and leaves it
// zero otherwise.
func decodeObject(data []byte, dst any) {
	if !isJSON(data, '{') {
		return
	}
	_ = codec.Unmarshal(data, dst)
}

func isJSON(data []byte, open byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == open
}

func (b *Buybox) UnmarshalJSON(data []byte) error {
	type plain Buybox
	*b = Buybox{}
	decodeObject(data, (*plain)(b))
	return nil
}

func (s *Specifications) UnmarshalJSON(data []byte) error {
	type plain Specifications
	*s = Specifications{}
	decodeObject(data, (*plain)(s))
	return nil
}

func (s *SpecSections) UnmarshalJSON(data []byte) error {
	type plain SpecSections
	*s = SpecSections{}
	decodeObject(data, (*plain)(s))
	return nil
}

func (s *SpecSection) UnmarshalJSON(data []byte) error {
	type plain SpecSection
	*s = SpecSection{}
	decodeObject(data, (*plain)(s))
	return nil
}

func (e *SpecEntry) UnmarshalJSON(data []byte) error {
	type plain SpecEntry
	*e = SpecEntry{}
	decodeObject(data, (*plain)(e))
	return nil
}

func (g *GlobalRating) UnmarshalJSON(data []byte) error {
	type plain GlobalRating
	*g = GlobalRating{}
	decodeObject(data, (*plain)(g))
	return nil
}

func (c *Contributor) UnmarshalJSON(data []byte) error {
	type plain Contributor
	*c = Contributor{}
	decodeObject(data, (*plain)(c))
	return nil
}

func (r *Review) UnmarshalJSON(data []byte) error {
	type plain Review
	*r = Review{}
	decodeObject(data, (*plain)(r))
	return nil
}

func (a *ReviewAuthor) UnmarshalJSON(data []byte) error {
	type plain ReviewAuthor
	*a = ReviewAuthor{}
	decodeObject(data, (*plain)(a))
	return nil
}
