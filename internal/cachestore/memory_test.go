package cachestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MemoryStorage_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, err := NewMemoryStorage()
	require.NoError(t, err)
	defer func() { _ = storage.Close(ctx) }()

	require.NoError(t, storage.Set(ctx, ":make", "version", "1.2.3"))

	value, ok, err := storage.Get(ctx, ":make", "version")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", value)
}

func Test_MemoryStorage_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	storage, err := NewMemoryStorage()
	require.NoError(t, err)
	defer func() { _ = storage.Close(ctx) }()

	_, ok, err := storage.Get(ctx, ":make", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_MemoryStorage_Drop_ClearsData(t *testing.T) {
	ctx := context.Background()
	storage, err := NewMemoryStorage()
	require.NoError(t, err)
	defer func() { _ = storage.Close(ctx) }()

	require.NoError(t, storage.Set(ctx, ":make", "version", "1.2.3"))
	require.NoError(t, storage.Drop(ctx))

	_, ok, err := storage.Get(ctx, ":make", "version")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_MemoryStorage_Addr_IsNonEmpty(t *testing.T) {
	storage, err := NewMemoryStorage()
	require.NoError(t, err)
	defer func() { _ = storage.Close(context.Background()) }()

	assert.NotEmpty(t, storage.Addr())
}
