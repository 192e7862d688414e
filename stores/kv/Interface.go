// Package kv defines the ordered key-value engine the spender index stores its
// records in. The index treats it as a black box providing point reads,
// existence checks and atomic batch writes; compaction and on-disk durability
// are the backend's concern.
package kv

import (
	"context"
)

// Store is the key-value engine contract consumed by the index.
//
// Write must apply the whole batch atomically: after a crash, either every
// operation in the batch is visible or none is. Point reads must be
// snapshot-consistent with respect to batch commits so a concurrent reader
// never observes a partially applied batch.
type Store interface {
	// Get returns the value stored under key, or an error satisfying
	// errors.Is(err, errors.ErrNotFound) when the key is absent.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Exists reports whether key has a stored value.
	Exists(ctx context.Context, key []byte) (bool, error)

	// Set writes a single record outside any batch.
	Set(ctx context.Context, key []byte, value []byte) error

	// Write commits all operations in the batch atomically.
	Write(ctx context.Context, batch *Batch) error

	// Close releases the underlying resources.
	Close() error
}

// BatchOp is one pending mutation inside a Batch.
type BatchOp struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Batch accumulates mutations to be committed atomically by Store.Write.
// It is not safe for concurrent use.
type Batch struct {
	ops []BatchOp
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Put(key, value []byte) {
	b.ops = append(b.ops, BatchOp{Key: key, Value: value})
}

func (b *Batch) Del(key []byte) {
	b.ops = append(b.ops, BatchOp{Key: key, Delete: true})
}

// Ops returns the pending operations in the order they were added.
func (b *Batch) Ops() []BatchOp {
	return b.ops
}

func (b *Batch) Len() int {
	return len(b.ops)
}
