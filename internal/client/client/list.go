package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListResponse is the union of the two shapes a list endpoint may answer
// with: a bare JSON array, or an object holding the array under a named key
// (e.g. {"departments": [...]}). Exactly one of Bare or Wrapped is set after
// decoding a non-null body.
type ListResponse[T any] struct {
	Bare    []T
	Wrapped map[string]json.RawMessage
}

func (r *ListResponse[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '[':
		r.Bare = []T{}
		return json.Unmarshal(b, &r.Bare)
	case b[0] == '{':
		return json.Unmarshal(b, &r.Wrapped)
	default:
		return fmt.Errorf("%w: list body starts with %q", ErrBadResponse, b[0])
	}
}

// Normalize returns the items regardless of shape. For the wrapped form the
// array is read from key; an object without that key is ErrBadResponse.
func (r ListResponse[T]) Normalize(key string) ([]T, error) {
	if r.Bare != nil {
		return r.Bare, nil
	}
	if r.Wrapped == nil {
		return []T{}, nil
	}

	raw, ok := r.Wrapped[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrBadResponse, key)
	}
	items := []T{}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadResponse, key, err)
	}
	return items, nil
}

// decodeList is the single normalization point used by every list call.
func decodeList[T any](body []byte, key string) ([]T, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []T{}, nil
	}
	var r ListResponse[T]
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return r.Normalize(key)
}
