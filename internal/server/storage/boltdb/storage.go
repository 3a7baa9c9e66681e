// Package boltdb implements storage.Store on an embedded BoltDB file.
//
// Plain keys live in a single bucket, every collection gets its own bucket.
package boltdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/authcache/internal/server/storage"
)

var (
	// BoltDB bucket for plain keys
	bucketKeys = []byte("kv")
)

// collectionPrefix separates collection buckets from the keys bucket
const collectionPrefix = "c:"

// Storage represents BoltDB storage implementation
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the BoltDB file at dbPath
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB, не ждем вечно если файл заблокирован другим процессом
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database file.
// bbolt waits for open transactions; later calls return ErrStorageClosed.
func (s *Storage) Close() error {
	return s.db.Close()
}

// mapError переводит ошибки bbolt в ошибки пакета storage
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, berrors.ErrDatabaseNotOpen):
		return fmt.Errorf("%w: %w", storage.ErrStorageClosed, err)
	case errors.Is(err, berrors.ErrKeyRequired), errors.Is(err, berrors.ErrKeyTooLarge):
		return fmt.Errorf("%w: %w", storage.ErrKeyTooLarge, err)
	default:
		return err
	}
}

// initBuckets создает bucket для ключей если он не существует
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketKeys); err != nil {
			return fmt.Errorf("failed to create keys bucket: %w", err)
		}
		return nil
	})
}

func collectionBucket(name string) []byte {
	return []byte(collectionPrefix + name)
}

// Get returns value stored under key
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketKeys)
		if bucket == nil {
			return fmt.Errorf("keys bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}
		// data валидна только внутри транзакции
		value = string(data)
		return nil
	})
	if err != nil {
		return "", mapError(err)
	}

	return value, nil
}

// Set stores value under key
func (s *Storage) Set(ctx context.Context, key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketKeys)
		if bucket == nil {
			return fmt.Errorf("keys bucket not found")
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to put key: %w", err)
		}
		return nil
	})
	return mapError(err)
}

// SetField upserts field in the collection bucket, creating the bucket on first write
func (s *Storage) SetField(ctx context.Context, collection, field, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(collectionBucket(collection))
		if err != nil {
			return fmt.Errorf("failed to create collection bucket %q: %w", collection, err)
		}

		if err := bucket.Put([]byte(field), []byte(value)); err != nil {
			return fmt.Errorf("failed to put field: %w", err)
		}
		return nil
	})
	return mapError(err)
}

// GetField returns field from the collection bucket
func (s *Storage) GetField(ctx context.Context, collection, field string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionBucket(collection))
		if bucket == nil {
			return storage.ErrNotFound
		}

		data := bucket.Get([]byte(field))
		if data == nil {
			return storage.ErrNotFound
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", mapError(err)
	}

	return value, nil
}

// ListFields returns field names of the collection in key order
func (s *Storage) ListFields(ctx context.Context, collection string) ([]string, error) {
	fields := []string{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionBucket(collection))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, _ []byte) error {
			fields = append(fields, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", mapError(err))
	}

	return fields, nil
}

// Ping checks that the database is open and readable
func (s *Storage) Ping(ctx context.Context) error {
	err := s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketKeys) == nil {
			return fmt.Errorf("keys bucket not found")
		}
		return nil
	})
	return mapError(err)
}
