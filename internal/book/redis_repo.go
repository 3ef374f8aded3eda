package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "book:"
	redisIndexKey  = "books:index"
	redisSeqKey    = "books:seq"
)

// RedisRepo stores each book as a JSON document under book:<isbn>.
// Insertion order lives in the books:index sorted set, scored by books:seq.
// Writes touching both run as Lua scripts so the two never diverge.
type RedisRepo struct {
	rdb     redis.UniversalClient
	timeout time.Duration
}

func NewRedisRepo(rdb redis.UniversalClient, timeout time.Duration) *RedisRepo {
	return &RedisRepo{rdb: rdb, timeout: timeout}
}

func (r *RedisRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func redisKey(isbn string) string {
	return redisKeyPrefix + isbn
}

// createScript stores the document and its index entry in one step. The
// sequence and index are written first so that a failure leaves no document
// behind.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[2])
redis.call('ZADD', KEYS[3], seq, ARGV[2])
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// deleteScript removes the document and its index entry in one step and
// returns the removed document.
var deleteScript = redis.NewScript(`
local doc = redis.call('GET', KEYS[1])
if not doc then
	return false
end
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('DEL', KEYS[1])
return doc
`)

func (r *RedisRepo) Create(ctx context.Context, b Book) (Book, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return Book{}, fmt.Errorf("encode book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	keys := []string{redisKey(b.ISBN), redisSeqKey, redisIndexKey}
	created, err := createScript.Run(timeoutCtx, r.rdb, keys, data, b.ISBN).Int()
	if err != nil {
		return Book{}, fmt.Errorf("store book: %w", err)
	}
	if created == 0 {
		return Book{}, ErrDuplicateISBN
	}
	return b, nil
}

func (r *RedisRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	isbns, err := r.rdb.ZRange(timeoutCtx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	out := make([]Book, 0, len(isbns))
	if len(isbns) == 0 {
		return out, nil
	}

	keys := make([]string, len(isbns))
	for i, isbn := range isbns {
		keys[i] = redisKey(isbn)
	}
	vals, err := r.rdb.MGet(timeoutCtx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		var b Book
		if err := json.Unmarshal([]byte(s), &b); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *RedisRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return decodeRedis(r.rdb.Get(timeoutCtx, redisKey(isbn)).Bytes())
}

func (r *RedisRepo) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	b.ISBN = isbn
	data, err := json.Marshal(b)
	if err != nil {
		return Book{}, fmt.Errorf("encode book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	ok, err := r.rdb.SetXX(timeoutCtx, redisKey(isbn), data, 0).Result()
	if err != nil {
		return Book{}, fmt.Errorf("store book: %w", err)
	}
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *RedisRepo) Delete(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	keys := []string{redisKey(isbn), redisIndexKey}
	doc, err := deleteScript.Run(timeoutCtx, r.rdb, keys, isbn).Text()
	return decodeRedis([]byte(doc), err)
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.rdb.Ping(timeoutCtx).Err()
}

func decodeRedis(data []byte, err error) (Book, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return Book{}, fmt.Errorf("decode book: %w", err)
	}
	return b, nil
}
