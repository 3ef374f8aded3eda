package book

import (
	"context"
	"sync"
)

// MemoryRepo keeps books in insertion order inside the process.
// Reads run concurrently; writes are serialized.
type MemoryRepo struct {
	mu    sync.RWMutex
	books []Book
	index map[string]int
}

// NewMemoryRepo constructs a MemoryRepo seeded with the provided books.
// Seed entries with a repeated ISBN are skipped.
func NewMemoryRepo(seed ...Book) *MemoryRepo {
	r := &MemoryRepo{
		books: make([]Book, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	for _, b := range seed {
		b.ISBN = CanonicalISBN(b.ISBN)
		if _, ok := r.index[b.ISBN]; ok {
			continue
		}
		r.index[b.ISBN] = len(r.books)
		r.books = append(r.books, cloneBook(b))
	}
	return r
}

func (r *MemoryRepo) Create(_ context.Context, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[b.ISBN]; ok {
		return Book{}, ErrDuplicateISBN
	}
	r.index[b.ISBN] = len(r.books)
	r.books = append(r.books, cloneBook(b))
	return cloneBook(b), nil
}

func (r *MemoryRepo) List(_ context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, len(r.books))
	for i, b := range r.books {
		out[i] = cloneBook(b)
	}
	return out, nil
}

func (r *MemoryRepo) GetByISBN(_ context.Context, isbn string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	return cloneBook(r.books[i]), nil
}

func (r *MemoryRepo) Update(_ context.Context, isbn string, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	b.ISBN = isbn
	r.books[i] = cloneBook(b)
	return cloneBook(b), nil
}

func (r *MemoryRepo) Delete(_ context.Context, isbn string) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	removed := r.books[i]
	r.books = append(r.books[:i], r.books[i+1:]...)
	delete(r.index, isbn)
	for j := i; j < len(r.books); j++ {
		r.index[r.books[j].ISBN] = j
	}
	return removed, nil
}

func (r *MemoryRepo) Ping(context.Context) error {
	return nil
}

// cloneBook copies the price so callers never share the stored pointer.
func cloneBook(b Book) Book {
	if b.Price != nil {
		p := *b.Price
		b.Price = &p
	}
	return b
}
