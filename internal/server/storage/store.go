package storage

import "context"

// Store defines the key-value capability the services are built on.
// Plain keys serve as the cache, collections hold the durable data.
type Store interface {
	// Get returns the value stored under key
	// Returns ErrNotFound if the key doesn't exist
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key unconditionally, without expiration
	Set(ctx context.Context, key, value string) error

	// SetField upserts field in the named collection
	SetField(ctx context.Context, collection, field, value string) error

	// GetField returns field from the named collection
	// Returns ErrNotFound if the collection or the field doesn't exist
	GetField(ctx context.Context, collection, field string) (string, error)

	// ListFields returns field names of the collection
	// Returns an empty slice for a missing collection
	ListFields(ctx context.Context, collection string) ([]string, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the backend connection
	Close() error
}
