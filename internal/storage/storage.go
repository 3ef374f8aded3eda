// Package storage opens the book store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"biblioteca/internal/book"
	"biblioteca/internal/config"
)

// CloseFunc releases the connections held by a store.
type CloseFunc func(context.Context) error

func noopClose(context.Context) error { return nil }

// Open builds the repository for cfg.StoreDriver. Network stores connect
// lazily, so an unreachable backend does not fail startup.
func Open(ctx context.Context, cfg config.Config) (book.Repository, CloseFunc, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		slog.InfoContext(ctx, "using in-memory store")
		return book.NewMemoryRepo(), noopClose, nil
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverRedis:
		return openRedis(ctx, cfg)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg config.Config) (book.Repository, CloseFunc, error) {
	client, err := book.ConnectMongo(ctx, cfg.MongoURI, cfg.RequestTimeout)
	if err != nil {
		return nil, nil, err
	}
	repo := book.NewMongoRepo(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection), cfg.RequestTimeout)
	if err := repo.EnsureIndexes(ctx); err != nil {
		slog.WarnContext(ctx, "isbn index not created, will retry", "error", err)
	}

	slog.InfoContext(ctx, "using mongo store",
		"uri", config.RedactDSN(cfg.MongoURI),
		"database", cfg.MongoDatabase,
		"collection", cfg.MongoCollection)
	return repo, client.Disconnect, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (book.Repository, CloseFunc, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres pool: %w", err)
	}

	repo := book.NewPostgresRepo(pool, cfg.RequestTimeout)
	if cfg.AutoMigrate {
		repo.WithSchemaSetup(func(ctx context.Context) error {
			return Migrate(ctx, pool, cfg.MigrationsDir)
		})
		migrateCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		err := repo.EnsureSchema(migrateCtx)
		cancel()
		if err != nil {
			slog.WarnContext(ctx, "migrations not applied, will retry", "error", err)
		}
	}

	slog.InfoContext(ctx, "using postgres store", "dsn", config.RedactDSN(cfg.DatabaseDSN))
	closeFn := func(context.Context) error {
		pool.Close()
		return nil
	}
	return repo, closeFn, nil
}

func openRedis(ctx context.Context, cfg config.Config) (book.Repository, CloseFunc, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	slog.InfoContext(ctx, "using redis store", "addr", opts.Addr, "db", opts.DB)
	closeFn := func(context.Context) error { return rdb.Close() }
	return book.NewRedisRepo(rdb, cfg.RequestTimeout), closeFn, nil
}
