package leveldbstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

func newTestStore(t *testing.T) *LevelDB {
	store, err := New(ulogger.NewTestLogger(t), t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestLevelDBGetSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Get(ctx, []byte("missing"))
	require.ErrorIs(t, err, errors.ErrNotFound)

	found, err := store.Exists(ctx, []byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, []byte("key"), []byte("value")))

	found, err = store.Exists(ctx, []byte("key"))
	require.NoError(t, err)
	assert.True(t, found)

	value, err := store.Get(ctx, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestLevelDBWriteBatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, []byte("a"), []byte("1")))

	batch := kv.NewBatch()
	batch.Put([]byte("b"), []byte("2"))
	batch.Del([]byte("a"))

	require.NoError(t, store.Write(ctx, batch))

	_, err := store.Get(ctx, []byte("a"))
	require.ErrorIs(t, err, errors.ErrNotFound)

	value, err := store.Get(ctx, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)
}

func TestLevelDBReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	logger := ulogger.NewTestLogger(t)

	store, err := New(logger, dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, []byte("key"), []byte("value")))
	require.NoError(t, store.Close())

	store, err = New(logger, dir)
	require.NoError(t, err)

	defer func() {
		_ = store.Close()
	}()

	value, err := store.Get(ctx, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}
