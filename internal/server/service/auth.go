package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/authcache/internal/crypto"
	"github.com/iudanet/authcache/internal/server/metrics"
	"github.com/iudanet/authcache/internal/server/storage"
	"github.com/iudanet/authcache/internal/validation"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer issues session tokens for authenticated users
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService registers users and checks their credentials.
//
// Reads go to the credentials cache first and fall back to the users
// collection; a fallback hit is copied back into the cache.
type AuthService struct {
	logger  *slog.Logger
	store   storage.Store
	hasher  PasswordHasher
	tokens  TokenIssuer
	metrics *metrics.Metrics
}

// NewAuthService создает сервис аутентификации
func NewAuthService(logger *slog.Logger, store storage.Store, hasher PasswordHasher, tokens TokenIssuer, m *metrics.Metrics) *AuthService {
	return &AuthService{
		logger:  logger,
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
	}
}

// Register stores a bcrypt hash of password for username in both the users
// collection and the credentials cache.
//
// The duplicate check only looks at the cache. A user present in the
// collection but missing from the cache is registered again and the stored
// hash is overwritten. Two concurrent registrations of the same new username
// both succeed; the last write wins.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// имена служебных ключей хранилища заняты всегда
	if isReservedKey(username) {
		return ErrAlreadyRegistered
	}

	_, err := s.store.Get(ctx, username)
	switch {
	case err == nil:
		s.metrics.CacheHit(metrics.CacheCredentials)
		return ErrAlreadyRegistered
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: failed to check credentials cache: %w", ErrStoreUnavailable, err)
	}
	s.metrics.CacheMiss(metrics.CacheCredentials)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Обе записи должны пройти; при сбое второй первая не откатывается
	if err := s.store.SetField(ctx, UsersCollection, username, hash); err != nil {
		if errors.Is(err, storage.ErrKeyTooLarge) {
			return fmt.Errorf("%w: username is too long: %v", ErrInvalidInput, err)
		}
		return fmt.Errorf("%w: failed to save user: %w", ErrStoreUnavailable, err)
	}
	if err := s.store.Set(ctx, username, hash); err != nil {
		return fmt.Errorf("%w: failed to cache credentials: %w", ErrStoreUnavailable, err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("username", username))

	return nil
}

// Login verifies password against the stored hash and returns a signed session token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// под служебными ключами лежат не хеши пользователей
	if isReservedKey(username) {
		return "", ErrInvalidCredentials
	}

	hash, err := s.lookupHash(ctx, username)
	if err != nil {
		return "", err
	}

	if err := s.hasher.Verify(password, hash); err != nil {
		s.logger.WarnContext(ctx, "login failed: password mismatch", slog.String("username", username))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("username", username))

	return token, nil
}

// lookupHash reads the hash from the cache, falling back to the users
// collection and backfilling the cache on a fallback hit
func (s *AuthService) lookupHash(ctx context.Context, username string) (string, error) {
	hash, err := s.store.Get(ctx, username)
	if err == nil {
		s.metrics.CacheHit(metrics.CacheCredentials)
		return hash, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%w: failed to read credentials cache: %w", ErrStoreUnavailable, err)
	}
	s.metrics.CacheMiss(metrics.CacheCredentials)

	hash, err = s.store.GetField(ctx, UsersCollection, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: failed to read user: %w", ErrStoreUnavailable, err)
	}

	if err := s.store.Set(ctx, username, hash); err != nil {
		return "", fmt.Errorf("%w: failed to backfill credentials cache: %w", ErrStoreUnavailable, err)
	}
	s.logger.DebugContext(ctx, "credentials cache backfilled", slog.String("username", username))

	return hash, nil
}
