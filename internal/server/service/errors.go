package service

import "errors"

// Ошибки сервисного слоя, handlers сопоставляют их с HTTP статусами
var (
	// ErrInvalidInput indicates that username or password is missing
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRegistered indicates that the username is present in the credentials cache
	ErrAlreadyRegistered = errors.New("user already registered")

	// ErrInvalidCredentials covers both unknown user and wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound indicates that there are no registered users
	ErrNotFound = errors.New("no users found")

	// ErrStoreUnavailable wraps any key-value backend failure
	ErrStoreUnavailable = errors.New("store unavailable")
)
