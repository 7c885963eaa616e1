package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/alicebob/miniredis/v2"
)

// MemoryStorage is a miniredis-backed platform.CacheStorage, used by
// tests that want a realistic key-value backend without standing up
// Badger's on-disk files. It drives miniredis's in-process dataset
// directly rather than through the wire protocol.
type MemoryStorage struct {
	mu     sync.Mutex
	server *miniredis.Miniredis
}

// NewMemoryStorage starts an in-process miniredis server.
func NewMemoryStorage() (*MemoryStorage, error) {
	server, err := miniredis.Run()
	if err != nil {
		return nil, err
	}
	return &MemoryStorage{server: server}, nil
}

func (s *MemoryStorage) Load(ctx context.Context) error { return nil }

func (s *MemoryStorage) Save(ctx context.Context) error { return nil }

func (s *MemoryStorage) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.server.FlushAll()
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, namespace, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.server.HGet(namespace, key)
	if err != nil {
		return nil, false, nil
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("decode cache value %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

func (s *MemoryStorage) Set(ctx context.Context, namespace, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s/%s: %w", namespace, key, err)
	}
	s.server.HSet(namespace, key, string(raw))
	return nil
}

func (s *MemoryStorage) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.server.Close()
	return nil
}

// Addr exposes the in-process server address, useful for test assertions.
func (s *MemoryStorage) Addr() string { return s.server.Addr() }
