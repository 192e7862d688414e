package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := New(ERR_STORAGE_ERROR, "write failed")
		require.Equal(t, ERR_STORAGE_ERROR, err.Code())
		require.Equal(t, "write failed", err.Message())
		require.Nil(t, err.Unwrap())
	})

	t.Run("formatted message", func(t *testing.T) {
		err := New(ERR_TX_NOT_FOUND, "tx %s not found", "deadbeef")
		require.Equal(t, "tx deadbeef not found", err.Message())
	})

	t.Run("trailing error is wrapped", func(t *testing.T) {
		err := New(ERR_STORAGE_ERROR, "read %d bytes", 10, io.ErrUnexpectedEOF)
		require.Equal(t, "read 10 bytes", err.Message())
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestErrorIs(t *testing.T) {
	t.Run("same code matches", func(t *testing.T) {
		err := NewTxNotFoundError("missing")
		require.ErrorIs(t, err, ErrTxNotFound)
		assert.NotErrorIs(t, err, ErrBlockNotFound)
	})

	t.Run("wrapped code matches", func(t *testing.T) {
		inner := NewTxNotFoundError("missing")
		outer := NewProcessingError("while querying", inner)
		require.ErrorIs(t, outer, ErrTxNotFound)
		require.ErrorIs(t, outer, ErrProcessing)
	})

	t.Run("nil receiver", func(t *testing.T) {
		var err *Error
		assert.False(t, err.Is(ErrNotFound))
		assert.Equal(t, ERR_UNKNOWN, err.Code())
		assert.Equal(t, "<nil>", err.Error())
	})
}

func TestErrorAs(t *testing.T) {
	err := NewStorageError("commit failed", io.ErrClosedPipe)

	var e *Error
	require.True(t, As(err, &e))
	assert.Equal(t, ERR_STORAGE_ERROR, e.Code())
}

func TestErrorString(t *testing.T) {
	err := New(ERR_BLOCK_INVALID, "bad header")
	assert.Contains(t, err.Error(), "ERR_BLOCK_INVALID")
	assert.Contains(t, err.Error(), "bad header")

	wrapped := New(ERR_PROCESSING, "outer", fmt.Errorf("inner"))
	assert.Contains(t, wrapped.Error(), "inner")
}
