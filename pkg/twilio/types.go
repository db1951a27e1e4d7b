package twilio

import (
	"encoding/json"
	"maps"
	"net/url"
	"strconv"
)

// Attributes holds the decoded fields of a resource representation. Known
// fields are read through the typed accessors; everything else stays in the
// map for forward compatibility.
type Attributes map[string]any

// Has reports whether name is present, even with a null value.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]

	return ok
}

// String returns the named field as a string. Numbers and booleans are
// formatted; null reads as the empty string.
func (a Attributes) String(name string) (string, bool) {
	value, ok := a[name]
	if !ok {
		return "", false
	}

	switch typed := value.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// Int returns the named field as an int. Twilio reports some counters as
// strings, so numeric strings are accepted.
func (a Attributes) Int(name string) (int, bool) {
	value, ok := a[name]
	if !ok {
		return 0, false
	}

	switch typed := value.(type) {
	case json.Number:
		n, err := typed.Int64()
		if err != nil {
			return 0, false
		}

		return int(n), true
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case string:
		n, err := strconv.Atoi(typed)
		if err != nil {
			return 0, false
		}

		return n, true
	default:
		return 0, false
	}
}

// Bool returns the named field as a bool.
func (a Attributes) Bool(name string) (bool, bool) {
	value, ok := a[name]
	if !ok {
		return false, false
	}

	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		b, err := strconv.ParseBool(typed)
		if err != nil {
			return false, false
		}

		return b, true
	default:
		return false, false
	}
}

// Map returns a nested object field.
func (a Attributes) Map(name string) (Attributes, bool) {
	switch typed := a[name].(type) {
	case map[string]any:
		return Attributes(typed), true
	case Attributes:
		return typed, true
	default:
		return nil, false
	}
}

// Slice returns an array field.
func (a Attributes) Slice(name string) ([]any, bool) {
	typed, ok := a[name].([]any)

	return typed, ok
}

// Clone returns a shallow copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}

	return maps.Clone(a)
}

// merge copies every field of other into a, overwriting existing values.
func (a Attributes) merge(other Attributes) {
	maps.Copy(a, other)
}

// Params are caller supplied request parameters using Twilio's wire names,
// e.g. "StatusCallback" or "Body".
type Params map[string]string

// Filters narrow a listing page. Inequalities go in the key, e.g.
// Filters{"DateCreated>": "2011-07-05", "StartTime<": "2011-08-01"}.
type Filters = Params

// Values converts p to url.Values.
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for key, value := range p {
		values.Set(key, value)
	}

	return values
}

func (p Params) clone() Params {
	if p == nil {
		return nil
	}

	return maps.Clone(p)
}

// withRequired returns a copy of p with every key of required set,
// overriding values the caller put in p.
func (p Params) withRequired(required Params) Params {
	merged := make(Params, len(p)+len(required))
	maps.Copy(merged, p)
	maps.Copy(merged, required)

	return merged
}
