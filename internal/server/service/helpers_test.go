package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/authcache/internal/crypto"
	"github.com/iudanet/authcache/internal/server/jwt"
	"github.com/iudanet/authcache/internal/server/metrics"
	"github.com/iudanet/authcache/internal/server/storage/memory"
)

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// faultyStore оборачивает memory.Storage и возвращает заданные ошибки по операциям
type faultyStore struct {
	*memory.Storage
	getErr        error
	setErr        error
	setFieldErr   error
	getFieldErr   error
	listFieldsErr error
	setCalls      []string
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Storage: memory.New()}
}

func (f *faultyStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Storage.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key, value string) error {
	f.setCalls = append(f.setCalls, key)
	if f.setErr != nil {
		return f.setErr
	}
	return f.Storage.Set(ctx, key, value)
}

func (f *faultyStore) SetField(ctx context.Context, collection, field, value string) error {
	if f.setFieldErr != nil {
		return f.setFieldErr
	}
	return f.Storage.SetField(ctx, collection, field, value)
}

func (f *faultyStore) GetField(ctx context.Context, collection, field string) (string, error) {
	if f.getFieldErr != nil {
		return "", f.getFieldErr
	}
	return f.Storage.GetField(ctx, collection, field)
}

func (f *faultyStore) ListFields(ctx context.Context, collection string) ([]string, error) {
	if f.listFieldsErr != nil {
		return nil, f.listFieldsErr
	}
	return f.Storage.ListFields(ctx, collection)
}

func newTestHasher(t *testing.T) *crypto.PasswordHasher {
	t.Helper()
	h, err := crypto.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTestTokens(t *testing.T) *jwt.Service {
	t.Helper()
	s, err := jwt.NewService("test-secret", time.Hour)
	require.NoError(t, err)
	return s
}

func newTestAuthService(t *testing.T, store *faultyStore) (*AuthService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	return NewAuthService(setupTestLogger(), store, newTestHasher(t), newTestTokens(t), m), m
}

// lookupCount достает значение authcache_cache_lookups_total для пары меток
func lookupCount(t *testing.T, m *metrics.Metrics, cache, result string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "authcache_cache_lookups_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelsMatch(metric, cache, result) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(metric *dto.Metric, cache, result string) bool {
	var gotCache, gotResult string
	for _, lp := range metric.GetLabel() {
		switch lp.GetName() {
		case "cache":
			gotCache = lp.GetValue()
		case "result":
			gotResult = lp.GetValue()
		}
	}
	return gotCache == cache && gotResult == result
}
