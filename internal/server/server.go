// Package server wires the key-value store, services and HTTP handlers
// into a runnable HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/authcache/internal/config"
	"github.com/iudanet/authcache/internal/crypto"
	"github.com/iudanet/authcache/internal/server/handlers"
	"github.com/iudanet/authcache/internal/server/jwt"
	"github.com/iudanet/authcache/internal/server/metrics"
	"github.com/iudanet/authcache/internal/server/middleware"
	"github.com/iudanet/authcache/internal/server/service"
	"github.com/iudanet/authcache/internal/server/storage"
	"github.com/iudanet/authcache/internal/server/storage/boltdb"
	"github.com/iudanet/authcache/internal/server/storage/memory"
	"github.com/iudanet/authcache/internal/server/storage/redis"
)

// Deps holds everything the HTTP layer needs
type Deps struct {
	Logger  *slog.Logger
	Store   storage.Store
	Hasher  service.PasswordHasher
	Tokens  service.TokenIssuer
	Metrics *metrics.Metrics
	Version string
}

// OpenStore connects to the backend selected by cfg.StoreBackend
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return redis.New(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.BackendBoltDB:
		return boltdb.New(ctx, cfg.BoltPath)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// NewHandler builds the routed and middleware-wrapped HTTP handler
func NewHandler(deps Deps) http.Handler {
	authService := service.NewAuthService(deps.Logger, deps.Store, deps.Hasher, deps.Tokens, deps.Metrics)
	directoryService := service.NewDirectoryService(deps.Logger, deps.Store, deps.Metrics)

	authHandler := handlers.NewAuthHandler(deps.Logger, authService)
	directoryHandler := handlers.NewDirectoryHandler(deps.Logger, directoryService)
	healthHandler := handlers.NewHealthHandler(deps.Logger, deps.Store, deps.Version)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /usernames", directoryHandler.Usernames)
	mux.HandleFunc("GET /health", healthHandler.Health)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(deps.Logger),
		middleware.LoggingWithSkip(deps.Logger, []string{"/health", "/metrics"}),
		middleware.ResponseTimeMiddleware(),
		middleware.CORSMiddleware(),
		middleware.MetricsMiddleware(deps.Metrics),
	)
}

// Run opens the store, serves HTTP on cfg.Addr() and shuts down gracefully
// when ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()
	logger.Info("store connected", slog.String("backend", cfg.StoreBackend))

	hasher, err := crypto.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	tokens, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	logger.Info("auth configured",
		slog.Int("bcrypt_cost", hasher.Cost()),
		slog.Duration("token_ttl", tokens.TTL()))

	handler := NewHandler(Deps{
		Logger:  logger,
		Store:   store,
		Hasher:  hasher,
		Tokens:  tokens,
		Metrics: metrics.New(),
		Version: version,
	})

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	return serve(ctx, listener, handler, cfg.ShutdownTimeout, logger)
}

// serve runs http.Server on listener until ctx is done
func serve(ctx context.Context, listener net.Listener, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", listener.Addr().String()))
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
