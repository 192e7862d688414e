// Package memory implements the kv.Store interface in memory. It is used in
// tests, including simulating storage failures via SetError.
package memory

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
)

var _ kv.Store = (*Memory)(nil)

type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	err    error
}

func New() *Memory {
	return &Memory{
		values: make(map[string][]byte),
	}
}

// SetError makes every subsequent operation fail with err until reset with
// SetError(nil). Tests use this to simulate storage engine failures.
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}

func (m *Memory) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, errors.NewStorageError("memory store error", m.err)
	}

	value, ok := m.values[string(key)]
	if !ok {
		return nil, errors.NewNotFoundError("key not found")
	}

	out := make([]byte, len(value))
	copy(out, value)

	return out, nil
}

func (m *Memory) Exists(_ context.Context, key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return false, errors.NewStorageError("memory store error", m.err)
	}

	_, ok := m.values[string(key)]

	return ok, nil
}

func (m *Memory) Set(_ context.Context, key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return errors.NewStorageError("memory store error", m.err)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.values[string(key)] = stored

	return nil
}

func (m *Memory) Write(_ context.Context, batch *kv.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return errors.NewStorageError("memory store error", m.err)
	}

	// all ops are applied under one lock, so readers see the whole batch or
	// none of it
	for _, op := range batch.Ops() {
		if op.Delete {
			delete(m.values, string(op.Key))
			continue
		}

		stored := make([]byte, len(op.Value))
		copy(stored, op.Value)

		m.values[string(op.Key)] = stored
	}

	return nil
}

func (m *Memory) Close() error {
	return nil
}
