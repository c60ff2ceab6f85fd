package handler

// RESPONSE HELPERS:
// Every failure leaving this API has the same JSON shape:
//
//	{"error": {"message": "user not found with id 7", "status": 404}}
//
// The status lives inside the envelope as well as on the wire so clients
// that swallow transport details still see it. writeError is the single
// funnel: handlers never map errors to statuses themselves — the status is
// a pure function of the apperror kind.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status MUST be set before the first Write — once the body
// starts, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and renders the envelope.
//
// MAPPING (status as a function of error kind):
//
//	ErrValidation   → 400
//	ErrUnauthorized → 401
//	ErrNotFound     → 404
//	anything else   → 500 with a generic message
//
// errors.Is walks the wrap chain, so services can annotate errors with
// fmt.Errorf("...: %w", err) without breaking the mapping.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	// NEVER expose internal error details to the client — the raw message
	// might contain SQL fragments or file paths.
	message := "an internal error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		if status != http.StatusInternalServerError {
			message = appErr.Message
		}
	}

	if status == http.StatusInternalServerError {
		slog.Error("internal error", slog.String("error", err.Error()))
	}

	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Message: message, Status: status}})
}

// NotFoundHandler renders the envelope for unmatched routes — chi's default
// is a plain-text 404, which would break the uniform JSON contract.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorBody{
		Message: "Not Found",
		Status:  http.StatusNotFound,
	}})
}
