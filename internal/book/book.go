// Package book serves the book resource over HTTP and keeps it in one of
// several interchangeable stores.
package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no book has the requested ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when a book with the same ISBN already exists.
	ErrDuplicateISBN = errors.New("duplicate isbn")
	// ErrInvalidBody is returned when the request body cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)

// Book represents a book entity.
type Book struct {
	Title  string   `json:"title" bson:"title"`
	Author string   `json:"author" bson:"author"`
	ISBN   string   `json:"isbn" bson:"isbn"`
	Price  *float64 `json:"price,omitempty" bson:"price,omitempty"`
	URL    string   `json:"url,omitempty" bson:"url,omitempty"`
}

// CanonicalISBN returns the text form used to compare keys.
func CanonicalISBN(isbn string) string {
	return strings.TrimSpace(isbn)
}

// ISBN is a book key decoded from either a JSON string or a JSON number.
type ISBN string

func (i *ISBN) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ISBN(CanonicalISBN(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("isbn must be a string or a number: %w", err)
	}
	*i = ISBN(n.String())
	return nil
}

// CreateInput is the request body for creating a book.
type CreateInput struct {
	Title  string   `json:"title" validate:"required"`
	Author string   `json:"author" validate:"required"`
	ISBN   ISBN     `json:"isbn" validate:"required"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	URL    string   `json:"url" validate:"omitempty,url"`
}

// Book converts the input into the entity stored verbatim.
func (in CreateInput) Book() Book {
	return Book{
		Title:  in.Title,
		Author: in.Author,
		ISBN:   CanonicalISBN(string(in.ISBN)),
		Price:  in.Price,
		URL:    in.URL,
	}
}

// UpdateInput is the full replacement body for the mutable fields of a book.
// Absent fields overwrite the stored values with their zero value.
type UpdateInput struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	URL    string   `json:"url" validate:"omitempty,url"`
}

// Apply returns the replacement book for the given key.
func (in UpdateInput) Apply(isbn string) Book {
	return Book{
		Title:  in.Title,
		Author: in.Author,
		ISBN:   isbn,
		Price:  in.Price,
		URL:    in.URL,
	}
}
