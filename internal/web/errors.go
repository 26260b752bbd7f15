package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and returned to the client
// as the user-facing message from core.MapError. Dashboard requests sent by
// htmx get an HTML fragment; everything else gets JSON.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/racesql/internal/core"
	"github.com/JonMunkholm/racesql/internal/logging"
	"github.com/JonMunkholm/racesql/internal/storage"
	"github.com/JonMunkholm/racesql/internal/storage/postgres"
	"github.com/JonMunkholm/racesql/internal/web/templates"
)

var (
	errRateLimited   = errors.New("rate limit exceeded")
	errNoResultsFile = errors.New("no file provided: results")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
		return
	}

	writeJSON(w, statusCode, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor picks the HTTP status for a conversion pipeline error.
func statusFor(err error) int {
	var (
		colErr  *core.ColumnCountError
		stmtErr *storage.StatementError
	)
	switch {
	case errors.Is(err, core.ErrUnknownVariant):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyConversions), errors.Is(err, postgres.ErrNoDatabase):
		return http.StatusServiceUnavailable
	case errors.As(err, &colErr), errors.As(err, &stmtErr), errors.Is(err, core.ErrConflict):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyInput), errors.Is(err, errNoResultsFile):
		return http.StatusBadRequest
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "file too large") {
		return http.StatusRequestEntityTooLarge
	}
	if strings.Contains(msg, "invalid csv") || strings.Contains(msg, "encoding error") ||
		strings.Contains(msg, "requires an exits file") || strings.Contains(msg, "invalid conflict policy") ||
		strings.Contains(msg, "invalid null_empty_ints") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// isHTMX checks if the request is an htmx request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
