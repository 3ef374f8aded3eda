package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Message   string        `json:"message"`
	Error     string        `json:"error,omitempty"`
	Details   []ErrorDetail `json:"details,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func JSONOK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

func JSONCreated(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

// JSONError writes an error body carrying a message and, when err is set,
// the underlying error text.
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error, details []ErrorDetail) {
	resp := ErrorResponse{
		Message: message,
		Details: details,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	if r != nil {
		resp.RequestID = RequestIDFrom(r)
	}
	JSON(w, statusCode, resp)
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(msg))
}
