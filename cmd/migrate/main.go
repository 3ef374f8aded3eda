package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"biblioteca/internal/platform/logging"
	"biblioteca/internal/storage"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logging.Init(os.Stderr, os.Getenv("LOG_LEVEL"), "text")

	if err := run(context.Background(), *command, *name); err != nil {
		slog.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command, name string) error {
	if command == "create" {
		return create(name)
	}

	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	dir, err := storage.UseMigrations(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return err
		}
		slog.Info("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return err
		}
		slog.Info("migration rolled back")
	case "status":
		return goose.StatusContext(ctx, db, dir)
	default:
		return errUnknownCommand(command)
	}
	return nil
}

// create writes a new SQL migration into the source tree, never into the
// embedded copy.
func create(name string) error {
	if name == "" {
		return errMissingName
	}
	goose.SetBaseFS(nil)
	if err := goose.Create(nil, migrationsDir(), name, "sql"); err != nil {
		return err
	}
	slog.Info("migration created", "name", name)
	return nil
}
