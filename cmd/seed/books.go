package main

import "biblioteca/internal/book"

func price(v float64) *float64 { return &v }

func sampleBooks() []book.CreateInput {
	return []book.CreateInput{
		{
			Title:  "El Principito",
			Author: "Antoine de Saint-Exupéry",
			ISBN:   "123456789",
			Price:  price(19.99),
			URL:    "https://example.com/principito",
		},
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", ISBN: "9780134190440", Price: price(39.5)},
		{Title: "Introducing Go", Author: "Caleb Doxsey", ISBN: "9781491941959"},
		{Title: "Concurrency in Go", Author: "Katherine Cox-Buday", ISBN: "9781491941195", Price: price(34.99)},
		{Title: "Go in Practice", Author: "Matt Butcher", ISBN: "9781633430075"},
	}
}
