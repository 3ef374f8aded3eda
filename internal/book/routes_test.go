package book

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Exercises the full lifecycle against the in-memory store.
func TestRoutes_PrincipitoScenario(t *testing.T) {
	h := NewHTTPHandler(NewService(NewMemoryRepo()))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var r *http.Request
		if body != "" {
			r = httptest.NewRequest(method, path, strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
		} else {
			r = httptest.NewRequest(method, path, nil)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		return w
	}

	w := do(http.MethodPost, "/books", principitoJSON)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, principitoJSON, w.Body.String())

	w = do(http.MethodPost, "/books", principitoJSON)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodGet, "/books/123456789", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, principitoJSON, w.Body.String())

	w = do(http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[`+principitoJSON+`]`, w.Body.String())

	w = do(http.MethodPut, "/books/000", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodDelete, "/books/123456789", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, principitoJSON, w.Body.String())

	w = do(http.MethodGet, "/books/123456789", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "book not found", w.Body.String())

	w = do(http.MethodGet, "/books", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRoutes_UpdateClearsOmittedFields(t *testing.T) {
	h := NewHTTPHandler(NewService(NewMemoryRepo(principito())))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	r := httptest.NewRequest(http.MethodPut, "/books/123456789", strings.NewReader(`{"title":"Le Petit Prince"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Le Petit Prince","author":"","isbn":"123456789"}`, w.Body.String())
}
