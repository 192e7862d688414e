package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := New()

	_, err := m.Get(ctx, []byte("missing"))
	require.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, m.Set(ctx, []byte("key"), []byte("value")))

	found, err := m.Exists(ctx, []byte("key"))
	require.NoError(t, err)
	assert.True(t, found)

	value, err := m.Get(ctx, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	// the returned slice is a copy, mutating it must not affect the store
	value[0] = 'X'

	value, err = m.Get(ctx, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestMemoryWriteBatch(t *testing.T) {
	ctx := context.Background()
	m := New()

	require.NoError(t, m.Set(ctx, []byte("a"), []byte("1")))

	batch := kv.NewBatch()
	batch.Put([]byte("b"), []byte("2"))
	batch.Put([]byte("c"), []byte("3"))
	batch.Del([]byte("a"))

	require.Equal(t, 3, batch.Len())
	require.NoError(t, m.Write(ctx, batch))

	_, err := m.Get(ctx, []byte("a"))
	require.ErrorIs(t, err, errors.ErrNotFound)

	value, err := m.Get(ctx, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)

	assert.Equal(t, 2, m.Len())
}

func TestMemorySetError(t *testing.T) {
	ctx := context.Background()
	m := New()

	require.NoError(t, m.Set(ctx, []byte("key"), []byte("value")))

	m.SetError(fmt.Errorf("disk on fire"))

	_, err := m.Get(ctx, []byte("key"))
	require.ErrorIs(t, err, errors.ErrStorageError)

	batch := kv.NewBatch()
	batch.Put([]byte("other"), []byte("x"))
	require.ErrorIs(t, m.Write(ctx, batch), errors.ErrStorageError)

	m.SetError(nil)

	value, err := m.Get(ctx, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	// the failed batch must not have been applied
	_, err = m.Get(ctx, []byte("other"))
	require.ErrorIs(t, err, errors.ErrNotFound)
}
