// Package redis implements storage.Store on top of a Redis server.
//
// Plain keys map to Redis strings and collections map to Redis hashes.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/iudanet/authcache/internal/server/storage"
)

// Options holds connection settings for the Redis backend
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Storage represents Redis storage implementation
type Storage struct {
	client *goredis.Client
}

// New connects to Redis and verifies the connection with PING
func New(ctx context.Context, opts Options) (*Storage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:       opts.Addr,
		Password:   opts.Password,
		DB:         opts.DB,
		// Ошибка хранилища сразу уходит клиенту, повторов нет
		MaxRetries: -1,
	})

	// Проверяем соединение
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	return &Storage{client: client}, nil
}

// Get returns the string stored under key
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("redis GET failed: %w", err)
	}
	return v, nil
}

// Set stores value under key without expiration
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}

// SetField upserts a field of the hash named collection
func (s *Storage) SetField(ctx context.Context, collection, field, value string) error {
	if err := s.client.HSet(ctx, collection, field, value).Err(); err != nil {
		return fmt.Errorf("redis HSET failed: %w", err)
	}
	return nil
}

// GetField returns a field of the hash named collection
func (s *Storage) GetField(ctx context.Context, collection, field string) (string, error) {
	v, err := s.client.HGet(ctx, collection, field).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("redis HGET failed: %w", err)
	}
	return v, nil
}

// ListFields returns field names of the hash named collection
func (s *Storage) ListFields(ctx context.Context, collection string) ([]string, error) {
	fields, err := s.client.HKeys(ctx, collection).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HKEYS failed: %w", err)
	}
	if fields == nil {
		fields = []string{}
	}
	return fields, nil
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis PING failed: %w", err)
	}
	return nil
}

// Close closes the client connection pool
func (s *Storage) Close() error {
	return s.client.Close()
}
