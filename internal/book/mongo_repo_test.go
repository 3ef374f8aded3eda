package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func principitoDoc() bson.D {
	return bson.D{
		{Key: "title", Value: "El Principito"},
		{Key: "author", Value: "Antoine de Saint-Exupéry"},
		{Key: "isbn", Value: "123456789"},
		{Key: "price", Value: 19.99},
		{Key: "url", Value: "https://example.com/principito"},
	}
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // createIndexes
			mtest.CreateSuccessResponse(), // insert
		)

		got, err := repo.Create(ctx, principito())
		require.NoError(mt, err)
		assert.Equal(mt, principito(), got)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		_, err := repo.Create(ctx, principito())
		assert.ErrorIs(mt, err, ErrDuplicateISBN)
	})

	mt.Run("index failure is retried on next create", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "index build rejected",
		}))

		_, err := repo.Create(ctx, principito())
		require.Error(mt, err)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		_, err = repo.Create(ctx, principito())
		assert.NoError(mt, err)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			principitoDoc(),
			bson.D{{Key: "title", Value: "Otro"}, {Key: "author", Value: "B"}, {Key: "isbn", Value: "2"}},
		))

		books, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, books, 2)
		assert.Equal(mt, principito(), books[0])
		assert.Nil(mt, books[1].Price)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		books, err := repo.List(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, books)
		assert.Empty(mt, books)
	})

	mt.Run("get", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, principitoDoc()))

		got, err := repo.GetByISBN(ctx, "123456789")
		require.NoError(mt, err)
		assert.Equal(mt, principito(), got)
	})

	mt.Run("get not found", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByISBN(ctx, "000")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "title", Value: "Le Petit Prince"},
				{Key: "author", Value: ""},
				{Key: "isbn", Value: "123456789"},
				{Key: "price", Value: nil},
				{Key: "url", Value: ""},
			}},
		})

		got, err := repo.Update(ctx, "123456789", Book{Title: "Le Petit Prince", ISBN: "123456789"})
		require.NoError(mt, err)
		assert.Equal(mt, Book{Title: "Le Petit Prince", ISBN: "123456789"}, got)
	})

	mt.Run("update not found", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Update(ctx, "000", Book{})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: principitoDoc()}})

		got, err := repo.Delete(ctx, "123456789")
		require.NoError(mt, err)
		assert.Equal(mt, principito(), got)
	})

	mt.Run("delete not found", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Delete(ctx, "000")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("ping", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.Ping(ctx))
	})
}
