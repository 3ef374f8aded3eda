package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biblioteca/internal/book"
	"biblioteca/internal/config"
	"biblioteca/internal/platform/logging"
	"biblioteca/internal/storage"
)

//go:generate swag init -d ../.. -g cmd/api/main.go -o ../../docs

// @title Biblioteca API
// @version 1.0
// @description CRUD service for a catalog of books keyed by ISBN.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(os.Stderr, "info", "json")
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}

	service := book.NewService(repo)
	limiter := newRateLimiter(cfg)
	go limiter.Run(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, service, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr, "store", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = closeStore(context.Background())
			return err
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := closeStore(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		slog.Info("server stopped gracefully")
	}
	return errors.Join(errs...)
}
