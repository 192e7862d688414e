package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings(t *testing.T) {
	s := NewSettings()
	require.NotNil(t, s)

	assert.NotEmpty(t, s.DataFolder)
	assert.NotEmpty(t, s.SpenderIndex.BlockFileDir)
	assert.Greater(t, s.SpenderIndex.BlockFileMaxSize, uint64(0))

	require.NotNil(t, s.SpenderIndex.StoreURL)
	assert.Equal(t, "leveldb", s.SpenderIndex.StoreURL.Scheme)
}
