// Package kv is the client's durable key/value store. The session record and
// the language preference live here under well-known keys.
package kv

import "context"

// Repository stores opaque byte values by key. A missing key reads as
// (nil, nil) and deleting one is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
