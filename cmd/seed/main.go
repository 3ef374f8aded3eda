package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"biblioteca/internal/book"
	"biblioteca/internal/config"
	"biblioteca/internal/platform/logging"
	"biblioteca/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(os.Stderr, "info", "text")
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(os.Stderr, cfg.LogLevel, "text")

	ctx := context.Background()
	repo, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeStore(ctx) }()

	inserted, skipped, err := seed(ctx, book.NewService(repo), sampleBooks())
	if err != nil {
		slog.Error("seed failed", "inserted", inserted, "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "inserted", inserted, "skipped", skipped, "store", cfg.StoreDriver)
}

// seed creates each book, skipping isbns that already exist so the command
// can be run repeatedly.
func seed(ctx context.Context, service *book.Service, books []book.CreateInput) (inserted, skipped int, err error) {
	for _, in := range books {
		if _, err := service.Create(ctx, in); err != nil {
			if errors.Is(err, book.ErrDuplicateISBN) {
				skipped++
				continue
			}
			return inserted, skipped, err
		}
		inserted++
	}
	return inserted, skipped, nil
}
