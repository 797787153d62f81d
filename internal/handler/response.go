package handler

// RESPONSE HELPERS:
// Every JSON response in the API funnels through these two functions, so
// the whole surface has one error shape:
//
//	{"error": "forbidden", "message": "you do not own this list"}
//
// The "error" field is the machine-readable type the frontend switches on;
// "message" is for humans. Handlers never pick status codes themselves —
// they hand writeError a domain error and the mapping below decides.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/gameshelf/internal/apperror"
)

// ErrorResponse is the standard error body for all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "validation_error"
	Message string `json:"message"` // human-readable description
}

// okResponse is the body for mutations whose only answer is "done".
type okResponse struct {
	OK bool `json:"ok"`
}

// writeJSON sends data with the given status code.
//
// Order is load-bearing: headers, then WriteHeader, then the body. The first
// Write flushes the headers, and changes after that are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; logging is all that's left. Only an
			// unencodable value (channel, func) gets here.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeOK sends {"ok": true} — the response for idempotent mutations where
// the client needs success/failure and nothing else.
func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// writeError maps a domain error onto an HTTP status and sends it.
//
// The service layer speaks apperror sentinels; this is the single place
// they become status codes. errors.Is walks the wrapped chain, so an error
// that went through three fmt.Errorf("...: %w") layers still matches.
//
// ErrUpstream deliberately maps to 500, not 502: to the frontend a broken
// catalog and a broken server are the same event ("show the retry state"),
// and the short diagnostic in the message is the debugging hook.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError
			errorType = "upstream_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — generic 500. The real error goes to the log (the
	// caller logs it), never to the client: raw error strings leak SQL,
	// file paths, and upstream URLs.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
