package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/authcache/internal/config"
	"github.com/iudanet/authcache/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Конфигурация из окружения, без JWT_SECRET не стартуем
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("authcache server starting",
		slog.String("version", Version),
		slog.String("addr", cfg.Addr()),
		slog.String("store", cfg.StoreBackend))

	if err := server.Run(ctx, cfg, logger, Version); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func printVersion() {
	fmt.Printf("authcache server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
