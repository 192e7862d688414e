package factory

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/spenderindex/stores/kv/leveldbstore"
	"github.com/bsv-blockchain/spenderindex/stores/kv/memory"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

func TestNewStore(t *testing.T) {
	logger := ulogger.NewTestLogger(t)

	t.Run("memory", func(t *testing.T) {
		u, err := url.Parse("memory:///")
		require.NoError(t, err)

		store, err := NewStore(logger, u)
		require.NoError(t, err)

		_, ok := store.(*memory.Memory)
		assert.True(t, ok)
	})

	t.Run("leveldb", func(t *testing.T) {
		u, err := url.Parse("leveldb://" + t.TempDir())
		require.NoError(t, err)

		store, err := NewStore(logger, u)
		require.NoError(t, err)

		defer func() {
			_ = store.Close()
		}()

		_, ok := store.(*leveldbstore.LevelDB)
		assert.True(t, ok)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		u, err := url.Parse("aerospike://localhost")
		require.NoError(t, err)

		_, err = NewStore(logger, u)
		require.Error(t, err)
	})

	t.Run("nil url", func(t *testing.T) {
		_, err := NewStore(logger, nil)
		require.Error(t, err)
	})
}
