package platform

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCacheStorage is an in-memory CacheStorage test double.
type memCacheStorage struct {
	mu      sync.Mutex
	loaded  bool
	dropped bool
	data    map[string]map[string]any
}

func newMemCacheStorage() *memCacheStorage {
	return &memCacheStorage{data: make(map[string]map[string]any)}
}

func (s *memCacheStorage) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	return nil
}

func (s *memCacheStorage) Save(ctx context.Context) error { return nil }

func (s *memCacheStorage) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped = true
	s.data = make(map[string]map[string]any)
	return nil
}

func (s *memCacheStorage) Get(ctx context.Context, namespace, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		return nil, false, nil
	}
	v, ok := ns[key]
	return v, ok, nil
}

func (s *memCacheStorage) Set(ctx context.Context, namespace, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[namespace] == nil {
		s.data[namespace] = make(map[string]any)
	}
	s.data[namespace][key] = value
	return nil
}

func (s *memCacheStorage) Close(ctx context.Context) error { return nil }

func newCacheTestPlatform(storage CacheStorage, mode string) *Platform {
	return &Platform{cacheStorage: storage, mode: mode}
}

func Test_LoadCache_DropsOnFirstLoad(t *testing.T) {
	storage := newMemCacheStorage()
	p := newCacheTestPlatform(storage, "development")

	require.NoError(t, p.LoadCache(context.Background()))
	assert.True(t, storage.loaded)
	assert.True(t, storage.dropped, "an empty cache has no stored mode/version and must be treated as invalid")
}

func Test_SaveCache_Then_LoadCache_RoundTrips(t *testing.T) {
	storage := newMemCacheStorage()
	p := newCacheTestPlatform(storage, "production")
	p.makefilePaths = nil

	require.NoError(t, p.SaveCache(context.Background()))

	storage.dropped = false
	require.NoError(t, p.LoadCache(context.Background()))
	assert.False(t, storage.dropped, "a cache saved under the same mode/version/makefiles must be considered valid")
}

func Test_LoadCache_DropsWhenModeChanges(t *testing.T) {
	storage := newMemCacheStorage()
	p := newCacheTestPlatform(storage, "production")
	p.makefilePaths = nil
	require.NoError(t, p.SaveCache(context.Background()))

	p.mode = "development"
	storage.dropped = false
	require.NoError(t, p.LoadCache(context.Background()))
	assert.True(t, storage.dropped)
}

func Test_DropCache(t *testing.T) {
	storage := newMemCacheStorage()
	p := newCacheTestPlatform(storage, "development")
	require.NoError(t, p.DropCache(context.Background()))
	assert.True(t, storage.dropped)
}

func Test_CacheOps_FailAfterDestruct(t *testing.T) {
	storage := newMemCacheStorage()
	p := newCacheTestPlatform(storage, "development")
	p.destructed = true

	assert.Error(t, p.LoadCache(context.Background()))
	assert.Error(t, p.SaveCache(context.Background()))
	assert.Error(t, p.DropCache(context.Background()))
}
