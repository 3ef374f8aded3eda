package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the input and stores the book as submitted.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	if err := validateStruct(in); err != nil {
		return Book{}, err
	}
	return s.repo.Create(ctx, in.Book())
}

// List returns every stored book in store order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, CanonicalISBN(isbn))
}

// Update overwrites every mutable field of the book with the given ISBN.
func (s *Service) Update(ctx context.Context, isbn string, in UpdateInput) (Book, error) {
	if err := validateStruct(in); err != nil {
		return Book{}, err
	}
	key := CanonicalISBN(isbn)
	return s.repo.Update(ctx, key, in.Apply(key))
}

// Delete removes the book with the given ISBN and returns it.
func (s *Service) Delete(ctx context.Context, isbn string) (Book, error) {
	return s.repo.Delete(ctx, CanonicalISBN(isbn))
}

// Ready reports whether the backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
