package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"biblioteca/db/migrations"
)

// UseMigrations points goose at dir, or at the migrations embedded in the
// binary when dir is empty. It returns the directory argument goose expects.
func UseMigrations(dir string) (string, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return "", err
	}
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		return ".", nil
	}
	goose.SetBaseFS(nil)
	return dir, nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	src, err := UseMigrations(dir)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, src); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	slog.InfoContext(ctx, "migrations applied")
	return nil
}
