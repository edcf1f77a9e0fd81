package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/database"
)

// ErrUnauthorized indicates a missing or invalid admin token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrorResponse is the error body: a single human-readable detail string.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteError maps an error to an HTTP status and writes the error body.
//
// Validation and dimension disagreements are the caller's fault (400), a
// missing artwork or descriptor is 404, an empty or dimensionless corpus is
// a temporary service condition (503), and everything else, including store
// failures, is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, catalog.ErrDimensionMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrEmptyCorpus), errors.Is(err, catalog.ErrUnknownDimension):
		status = http.StatusServiceUnavailable
	}

	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request error",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak driver internals to clients.
		detail = "internal error"
	}
	if errors.Is(err, database.ErrConnectivity) {
		detail = "store unreachable"
	}

	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
