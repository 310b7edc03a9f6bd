// Package httputil writes JSON responses and maps coded domain errors to HTTP statuses.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "studyhub/pkg/domain-errors"
)

// ErrorResponse is the envelope every failed request receives. Msg mirrors the
// message field successful mutations return, so clients can render either.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Msg              string `json:"msg,omitempty"`
}

// MessageResponse is the body of mutations that return nothing but a confirmation.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// WriteMessage writes {"msg": msg} with status 200.
func WriteMessage(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Msg: msg})
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeNotAllowed, dErrors.CodeInvariantViolation, dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as an ErrorResponse. Uncoded errors and internal errors are
// reported without their message so storage details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}
	status := StatusFor(de.Code)
	if status == http.StatusInternalServerError {
		WriteJSON(w, status, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}
	WriteJSON(w, status, ErrorResponse{
		Error:            string(de.Code),
		ErrorDescription: de.Message,
		Msg:              de.Message,
	})
}
