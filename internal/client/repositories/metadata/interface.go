// Package metadata is a small string key/value table in the client's SQLite
// database. The session store keeps its token pair here.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
}
