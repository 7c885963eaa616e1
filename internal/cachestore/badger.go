// Package cachestore provides the default platform.CacheStorage: a
// BadgerDB-backed key-value store persisting keyspace snapshots to
// disk.
package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStorage is the default on-disk platform.CacheStorage.
type BadgerStorage struct {
	path string

	mu sync.RWMutex
	db *badger.DB
}

// NewBadgerStorage constructs a BadgerStorage rooted at path. The
// directory is created lazily on Load.
func NewBadgerStorage(path string) (*BadgerStorage, error) {
	return &BadgerStorage{path: path}, nil
}

func (s *BadgerStorage) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	opts := badger.DefaultOptions(s.path).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open cache storage at %s: %w", s.path, err)
	}
	s.db = db
	return nil
}

func (s *BadgerStorage) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil
	}
	return s.db.Sync()
}

// Drop wipes every key under every namespace, leaving the database open
// and ready for reuse.
func (s *BadgerStorage) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.DropAll()
}

func (s *BadgerStorage) Get(ctx context.Context, namespace, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, false, nil
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(namespaceKey(namespace, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("decode cache value %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

func (s *BadgerStorage) Set(ctx context.Context, namespace, key string, value any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return fmt.Errorf("cache storage not loaded")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s/%s: %w", namespace, key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(namespaceKey(namespace, key), raw)
	})
}

func (s *BadgerStorage) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func namespaceKey(namespace, key string) []byte {
	return []byte(namespace + "/" + key)
}
