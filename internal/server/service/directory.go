package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/authcache/internal/server/metrics"
	"github.com/iudanet/authcache/internal/server/storage"
)

// DirectoryService lists registered usernames.
//
// The list is cached as a JSON array under UsernamesCacheKey on the first
// miss and is not invalidated by later registrations, so once populated it
// keeps returning the snapshot taken at that moment.
type DirectoryService struct {
	logger  *slog.Logger
	store   storage.Store
	metrics *metrics.Metrics
}

// NewDirectoryService создает сервис списка пользователей
func NewDirectoryService(logger *slog.Logger, store storage.Store, m *metrics.Metrics) *DirectoryService {
	return &DirectoryService{
		logger:  logger,
		store:   store,
		metrics: m,
	}
}

// ListUsernames returns all known usernames
func (s *DirectoryService) ListUsernames(ctx context.Context) ([]string, error) {
	cached, err := s.store.Get(ctx, UsernamesCacheKey)
	if err == nil {
		s.metrics.CacheHit(metrics.CacheUsernames)

		var usernames []string
		if err := json.Unmarshal([]byte(cached), &usernames); err != nil {
			return nil, fmt.Errorf("%w: corrupt usernames cache: %w", ErrStoreUnavailable, err)
		}
		s.logger.DebugContext(ctx, "usernames served from cache", slog.Int("count", len(usernames)))
		return usernames, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: failed to read usernames cache: %w", ErrStoreUnavailable, err)
	}
	s.metrics.CacheMiss(metrics.CacheUsernames)

	usernames, err := s.store.ListFields(ctx, UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %w", ErrStoreUnavailable, err)
	}
	if len(usernames) == 0 {
		return nil, ErrNotFound
	}

	data, err := json.Marshal(usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal usernames: %w", err)
	}
	if err := s.store.Set(ctx, UsernamesCacheKey, string(data)); err != nil {
		return nil, fmt.Errorf("%w: failed to cache usernames: %w", ErrStoreUnavailable, err)
	}
	s.logger.DebugContext(ctx, "usernames cache populated", slog.Int("count", len(usernames)))

	return usernames, nil
}
