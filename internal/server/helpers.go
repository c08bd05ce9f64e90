package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithDetail writes a JSON error response carrying the underlying cause.
func WriteErrorWithDetail(w http.ResponseWriter, statusCode int, message, detail string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Detail: detail})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// QueryParam returns the trimmed value of a query parameter.
func QueryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// RequireParams writes a 400 naming the first missing parameter and returns
// false. Values are looked up with QueryParam.
func RequireParams(w http.ResponseWriter, r *http.Request, names ...string) bool {
	for _, name := range names {
		if QueryParam(r, name) == "" {
			WriteError(w, http.StatusBadRequest, models.ErrMissingParameter.Error()+": "+name)
			return false
		}
	}
	return true
}

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *common.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrMissingParameter):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnknownCategory),
		errors.Is(err, models.ErrDocumentNotFound),
		errors.Is(err, models.ErrProductNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write
		logger.Debug().Str("path", r.URL.Path).Msg("Request cancelled by client")
	default:
		logger.Error().
			Str("path", r.URL.Path).
			Str("correlation_id", w.Header().Get("X-Correlation-ID")).
			Err(err).
			Msg("Upstream unavailable")
		WriteErrorWithDetail(w, http.StatusInternalServerError, models.ErrUpstreamUnavailable.Error(), err.Error())
	}
}
