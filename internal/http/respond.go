package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"moneytrack/internal/auth"
	"moneytrack/internal/core"
	applog "moneytrack/internal/log"
	"moneytrack/internal/storage"
)

// validationErrors are the core and storage sentinels that mean the caller
// sent a bad request, not that the server failed.
var validationErrors = []error{
	core.ErrInvalidKind,
	core.ErrEmptyConcept,
	core.ErrConceptTooLong,
	core.ErrInvalidAmount,
	core.ErrMissingUser,
	core.ErrEmptyEmail,
	core.ErrPasswordTooWeak,
	core.ErrNoDates,
	core.ErrIncompleteDateRange,
	core.ErrSwappedDateRange,
	core.ErrUnknownTimePeriod,
	core.ErrInvalidDate,
	storage.ErrDuplicateEmail,
	errBadBody,
	errMissingCredentials,
}

func errorStatus(err error) int {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

// writeError maps a domain error onto its HTTP status. Server-side failures
// are logged with the request context; client mistakes are not.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
