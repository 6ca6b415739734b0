// Package kv defines the key-value storage abstraction the pool ledger
// persists into. Backends (pebble, goleveldb, in-memory) implement DB; a
// Manager owns the lifecycle of named databases.
package kv

import (
	"context"
	"errors"
)

var (
	ErrClosed      = errors.New("database is closed")
	ErrKeyNotFound = errors.New("key not found")
)

// DB defines the basic operations any backend must support.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch applies a set of operations atomically.
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator traverses keys in [start, end) in lexicographic order.
	// A nil end means "to the last key".
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Iterator allows traversing over entries.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Manager handles the lifecycle of named databases.
type Manager interface {
	// OpenDB opens or creates a database with the given name.
	OpenDB(name string) (DB, error)

	// CloseDB closes a specific database.
	CloseDB(name string) error

	// Close closes all databases.
	Close() error
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
