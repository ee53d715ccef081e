package storage

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by backends that cannot reach their medium.
var ErrUnavailable = errors.New("storage: unavailable")

// KeyValueStore is a flat string key-value store. Get reports ok=false for a
// missing key. Values are opaque to the store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
