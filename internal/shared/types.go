package shared

import (
	"bytes"
	"encoding/json"
)

// Optional tracks JSON field presence for PATCH requests. Plain pointers
// cannot tell "field absent" apart from "field: null", and partial updates
// need both: absent keeps the stored value, null clears a nullable column.
type Optional[T any] struct {
	Value   T
	Present bool // field appeared in the request body
	Null    bool // field appeared and was explicitly null
}

// UnmarshalJSON is only invoked for fields present in the body, which is
// what makes presence tracking work.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value and whether a non-null value was supplied.
func (o Optional[T]) Get() (T, bool) {
	if !o.Present || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}
