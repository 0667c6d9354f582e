// Package store provides the local persisted state layer for the chat client.
// It manages opaque blobs under fixed keys, backed by pluggable storage.
package store

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
)

// Entry is a key-value pair in the local state namespace. Keys are
// /-separated hierarchical paths and values are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}

// Store translates between external storage and the local state namespace.
// Implementations are stateless — they perform I/O on each call without
// caching.
type Store interface {
	// List returns all available keys in the store.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries to storage, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries from storage. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
