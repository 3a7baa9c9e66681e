// Package memory implements storage.Store in process memory.
//
// It is meant for tests and single-process runs: nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/iudanet/authcache/internal/server/storage"
)

// collection keeps fields in insertion order, the way small Redis hashes do.
type collection struct {
	values map[string]string
	order  []string
}

// Storage is a concurrency-safe in-memory key-value store
type Storage struct {
	keys        map[string]string
	collections map[string]*collection
	mu          sync.RWMutex
	closed      bool
}

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{
		keys:        make(map[string]string),
		collections: make(map[string]*collection),
	}
}

// Get returns value stored under key
func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", storage.ErrStorageClosed
	}

	v, ok := s.keys[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// Set stores value under key
func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}

	s.keys[key] = value
	return nil
}

// SetField upserts field in the collection
func (s *Storage) SetField(_ context.Context, name, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}

	c, ok := s.collections[name]
	if !ok {
		c = &collection{values: make(map[string]string)}
		s.collections[name] = c
	}
	if _, exists := c.values[field]; !exists {
		c.order = append(c.order, field)
	}
	c.values[field] = value
	return nil
}

// GetField returns field from the collection
func (s *Storage) GetField(_ context.Context, name, field string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", storage.ErrStorageClosed
	}

	c, ok := s.collections[name]
	if !ok {
		return "", storage.ErrNotFound
	}
	v, ok := c.values[field]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// ListFields returns field names in insertion order
func (s *Storage) ListFields(_ context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	c, ok := s.collections[name]
	if !ok {
		return []string{}, nil
	}
	fields := make([]string, len(c.order))
	copy(fields, c.order)
	return fields, nil
}

// Ping reports whether the storage is still open
func (s *Storage) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	return nil
}

// Close marks the storage closed. Subsequent calls fail with ErrStorageClosed.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
