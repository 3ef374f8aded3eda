package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepo stores one document per book in a collection with a unique
// index on isbn.
type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
	indexes readyGate
}

func NewMongoRepo(coll *mongo.Collection, timeout time.Duration) *MongoRepo {
	r := &MongoRepo{coll: coll, timeout: timeout}
	r.indexes.setup = r.createIndexes
	return r
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureIndexes creates the unique isbn index. Once it succeeds later calls
// are no-ops.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	return r.indexes.ensure(ctx)
}

func (r *MongoRepo) createIndexes(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.coll.Indexes().CreateOne(timeoutCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("isbn_unique"),
	})
	if err != nil {
		return fmt.Errorf("create isbn index: %w", err)
	}
	return nil
}

func (r *MongoRepo) Create(ctx context.Context, b Book) (Book, error) {
	// uniqueness relies on the index, so a store that was unreachable at
	// startup gets it on the first write instead
	if err := r.EnsureIndexes(ctx); err != nil {
		return Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.coll.InsertOne(timeoutCtx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Book{}, ErrDuplicateISBN
		}
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

func (r *MongoRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(timeoutCtx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	out := []Book{}
	if err := cur.All(timeoutCtx, &out); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return decodeOne(r.coll.FindOne(timeoutCtx, bson.D{{Key: "isbn", Value: isbn}}))
}

func (r *MongoRepo) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	// every mutable field is written, so absent values replace stored ones
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: b.Title},
		{Key: "author", Value: b.Author},
		{Key: "price", Value: b.Price},
		{Key: "url", Value: b.URL},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne(r.coll.FindOneAndUpdate(timeoutCtx, bson.D{{Key: "isbn", Value: isbn}}, update, opts))
}

func (r *MongoRepo) Delete(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return decodeOne(r.coll.FindOneAndDelete(timeoutCtx, bson.D{{Key: "isbn", Value: isbn}}))
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.coll.Database().Client().Ping(timeoutCtx, readpref.Primary())
}

func decodeOne(res *mongo.SingleResult) (Book, error) {
	var b Book
	if err := res.Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// ConnectMongo builds a client for uri. The driver connects lazily and keeps
// monitoring the deployment, so an unreachable server at startup is only
// logged; operations succeed again once it becomes reachable.
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		slog.WarnContext(ctx, "mongo not reachable yet, continuing", "error", err)
	}
	return client, nil
}
