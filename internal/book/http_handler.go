package book

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"biblioteca/internal/httpx"
)

const notFoundMessage = "book not found"

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create handles POST /books
//
// @Summary Create a book
// @Description Store a new book. The isbn must not already exist.
// @Tags books
// @Accept json
// @Produce json
// @Param book body CreateInput true "Book to create"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := decode(r, &in); err != nil {
		writeDecodeError(w, r, "could not create book", err)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeBadRequest(w, r, "could not create book", err)
		return
	}
	httpx.JSONCreated(w, b)
}

// List handles GET /books
//
// @Summary List books
// @Description Get every stored book
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		writeUnexpected(w, r, "could not list books", err)
		return
	}
	httpx.JSONOK(w, books)
}

// GetByISBN handles GET /books/{isbn}
//
// @Summary Get book by ISBN
// @Description Get a single book by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} Book
// @Failure 404 {string} string "book not found"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{isbn} [get]
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByISBN(r.Context(), r.PathValue("isbn"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Text(w, http.StatusNotFound, notFoundMessage)
			return
		}
		writeUnexpected(w, r, "could not get book", err)
		return
	}
	httpx.JSONOK(w, b)
}

// Update handles PUT /books/{isbn}
//
// @Summary Update book by ISBN
// @Description Replace title, author, price and url. Omitted fields are cleared; the isbn never changes.
// @Tags books
// @Accept json
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Param book body UpdateInput true "Replacement fields"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {string} string "book not found"
// @Failure 413 {object} httpx.ErrorResponse
// @Router /books/{isbn} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := decode(r, &in); err != nil {
		writeDecodeError(w, r, "could not update book", err)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("isbn"), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Text(w, http.StatusNotFound, notFoundMessage)
			return
		}
		writeBadRequest(w, r, "could not update book", err)
		return
	}
	httpx.JSONOK(w, b)
}

// Delete handles DELETE /books/{isbn}
//
// @Summary Delete book by ISBN
// @Description Remove a book and return it
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} Book
// @Failure 404 {string} string "book not found"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Delete(r.Context(), r.PathValue("isbn"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Text(w, http.StatusNotFound, notFoundMessage)
			return
		}
		writeUnexpected(w, r, "could not delete book", err)
		return
	}
	httpx.JSONOK(w, b)
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrInvalidBody
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	return nil
}

// writeDecodeError answers 413 when the body hit the size limit and 400
// otherwise.
func writeDecodeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "request body too large", err, nil)
		return
	}
	httpx.JSONError(w, r, http.StatusBadRequest, message, err, nil)
}

// writeBadRequest reports a rejected write. Store failures on writes are
// surfaced to the client as 400 together with the underlying error.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		details := make([]httpx.ErrorDetail, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, httpx.ErrorDetail{Field: f.Field, Message: f.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, message, err, details)
		return
	}
	if !errors.Is(err, ErrDuplicateISBN) {
		slog.WarnContext(r.Context(), "store rejected write", "error", err)
	}
	httpx.JSONError(w, r, http.StatusBadRequest, message, err, nil)
}

func writeUnexpected(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.ErrorContext(r.Context(), message, "error", err)
	httpx.JSONError(w, r, http.StatusInternalServerError, message, err, nil)
}
