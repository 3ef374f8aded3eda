package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input reaches the store verbatim", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), principito()).Return(principito(), nil)

		got, err := NewService(repo).Create(ctx, CreateInput{
			Title:  "El Principito",
			Author: "Antoine de Saint-Exupéry",
			ISBN:   " 123456789 ",
			Price:  price(19.99),
			URL:    "https://example.com/principito",
		})
		require.NoError(t, err)
		assert.Equal(t, principito(), got)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)

		_, err := NewService(repo).Create(ctx, CreateInput{Title: "T"})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 2)
		assert.Contains(t, err.Error(), "author is required")
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().Update(gomock.Any(), "7", Book{ISBN: "7", URL: "https://example.com"}).Return(Book{ISBN: "7"}, nil)

	svc := NewService(repo)
	_, err := svc.Update(ctx, " 7", UpdateInput{URL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "7", UpdateInput{Price: price(-3)})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).Return(nil, nil)

	books, err := NewService(repo).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestService_Ready(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	down := errors.New("down")
	repo.EXPECT().Ping(gomock.Any()).Return(down)

	assert.ErrorIs(t, NewService(repo).Ready(context.Background()), down)
}
