// Package storage holds the key-value backends the task list is persisted to.
// Every backend stores opaque string values under string keys; the task
// repository decides what goes in them.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: closed")

// KV is a minimal string key-value store.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}
