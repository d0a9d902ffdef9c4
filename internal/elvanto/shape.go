package elvanto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The Elvanto API returns XML-derived JSON: a container field holding one
// element arrives as a bare object, a container holding several arrives as an
// array, and an empty container arrives as "" or is missing entirely. The
// types in this file absorb all of those encodings at every nesting boundary
// so the rest of the code only ever sees uniform slices and scalars.

// OneOrMany decodes a field that may be absent, null, a single object or an
// array of objects into a slice. Any other shape decodes to an empty slice.
type OneOrMany[T any] []T

func (m *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	*m = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*m = items
	case '{':
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*m = []T{item}
	default:
		// Scalar (typically "" for an empty XML container): treat as empty.
	}
	return nil
}

// Flag is a boolean that the API encodes as 1, "1", "true"/"True" or true.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = false
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(s == "1" || strings.EqualFold(s, "true"))
		return nil
	}
	if string(data) == "true" {
		*f = true
		return nil
	}
	if n, err := strconv.Atoi(string(data)); err == nil {
		*f = Flag(n == 1)
	}
	return nil
}

// Int is an integer that the API encodes either as a number or as a numeric
// string. Anything unparseable decodes to 0.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = Int(v)
	}
	return nil
}

// unmarshalObject decodes data into v only when it is a JSON object.
// Containers like "demographics" or "departments" arrive as "" when empty;
// those (and any other non-object shape) leave v at its zero value.
func unmarshalObject(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	return json.Unmarshal(data, v)
}
