package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		r := NewRequest(http.MethodGet, "/books", nil)
		assert.Empty(t, r.Header.Get("Content-Type"))
	})

	t.Run("raw string", func(t *testing.T) {
		r := NewRequest(http.MethodPost, "/books", `{"title":`)
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"title":`, string(data))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	})

	t.Run("encoded value", func(t *testing.T) {
		r := NewRequest(http.MethodPost, "/books", Principito())
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"El Principito","author":"Antoine de Saint-Exupéry","isbn":"123456789","price":19.99,"url":"https://example.com/principito"}`, string(data))
	})
}

func TestRecordHTTPResponse(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"message":"short and stout"}`))
	})

	res := RecordHTTPResponse(Serve(h, NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusTeapot, res.Code)
	assert.Equal(t, "short and stout", res.Body["message"])
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
}

func TestRecordHTTPResponse_PlainText(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "book not found", http.StatusNotFound)
	})

	res := RecordHTTPResponse(Serve(h, NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Nil(t, res.Body)
	assert.Equal(t, "book not found\n", res.Raw)
}
