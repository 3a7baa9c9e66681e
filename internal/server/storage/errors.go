package storage

import "errors"

// Common storage errors
var (
	// ErrNotFound indicates that key or field is absent in storage
	ErrNotFound = errors.New("not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrKeyTooLarge indicates that the backend can't store a key of this size
	ErrKeyTooLarge = errors.New("key too large")
)
