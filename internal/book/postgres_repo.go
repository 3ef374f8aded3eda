package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PgxQuerier is the subset of *pgxpool.Pool used by PostgresRepo.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type PostgresRepo struct {
	db      PgxQuerier
	timeout time.Duration
	schema  readyGate
}

func NewPostgresRepo(db PgxQuerier, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

// WithSchemaSetup makes every data operation run setup first until it has
// succeeded once. It is used to apply migrations against a database that was
// unreachable at startup.
func (r *PostgresRepo) WithSchemaSetup(setup func(context.Context) error) *PostgresRepo {
	r.schema.setup = setup
	return r
}

// EnsureSchema runs the schema setup now if it has not succeeded yet.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	return r.schema.ensure(ctx)
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `isbn, title, author, price, url`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ISBN, &b.Title, &b.Author, &b.Price, &b.URL)
	return b, err
}

func (r *PostgresRepo) Create(ctx context.Context, b Book) (Book, error) {
	if err := r.schema.ensure(ctx); err != nil {
		return Book{}, err
	}
	const sql = `
		INSERT INTO books (isbn, title, author, price, url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	created, err := scanBook(r.db.QueryRow(timeoutCtx, sql, b.ISBN, b.Title, b.Author, b.Price, b.URL))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Book{}, ErrDuplicateISBN
		}
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return created, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	if err := r.schema.ensure(ctx); err != nil {
		return nil, err
	}
	const sql = `SELECT ` + bookColumns + ` FROM books ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	if err := r.schema.ensure(ctx); err != nil {
		return Book{}, err
	}
	const sql = `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.one(scanBook(r.db.QueryRow(timeoutCtx, sql, isbn)))
}

func (r *PostgresRepo) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	if err := r.schema.ensure(ctx); err != nil {
		return Book{}, err
	}
	const sql = `
		UPDATE books
		SET title = $2, author = $3, price = $4, url = $5, updated_at = NOW()
		WHERE isbn = $1
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.one(scanBook(r.db.QueryRow(timeoutCtx, sql, isbn, b.Title, b.Author, b.Price, b.URL)))
}

func (r *PostgresRepo) Delete(ctx context.Context, isbn string) (Book, error) {
	if err := r.schema.ensure(ctx); err != nil {
		return Book{}, err
	}
	const sql = `DELETE FROM books WHERE isbn = $1 RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.one(scanBook(r.db.QueryRow(timeoutCtx, sql, isbn)))
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresRepo) one(b Book, err error) (Book, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}
