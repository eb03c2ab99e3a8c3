package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
	"github.com/warp/timekeeper/core"
)

// =============================================================================
// RESPONSE ENVELOPE
// =============================================================================

// Error codes carried in the envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// Envelope wraps every response body.
//
//	{"success": true, "data": ...}
//	{"success": false, "error": {"code": ..., "message": ..., "details": ...}}
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, Envelope{Error: &APIError{Code: code, Message: message, Details: details}})
}

// writeErrorFrom maps a domain error to its status and code. It is the only
// place where errors become HTTP responses.
//
//	malformed month, body, query 400 VALIDATION_ERROR
//	other validation failures   422 VALIDATION_ERROR
//	state conflicts             422 VALIDATION_ERROR
//	missing records             404 NOT_FOUND
//	role not allowed            403 FORBIDDEN
//	anything else               500 INTERNAL_ERROR
func writeErrorFrom(w http.ResponseWriter, r *http.Request, err error) {
	details := core.ErrorDetails(err)
	var detailsOut any
	if details != nil {
		detailsOut = details
	}

	switch {
	case errors.Is(err, core.ErrInvalidMonth), errors.Is(err, errBadRequest):
		fail(w, http.StatusBadRequest, CodeValidation, clientMessage(err), detailsOut)
	case errors.Is(err, core.ErrValidation), core.IsConflict(err):
		fail(w, http.StatusUnprocessableEntity, CodeValidation, clientMessage(err), detailsOut)
	case core.IsNotFound(err):
		fail(w, http.StatusNotFound, CodeNotFound, notFoundMessage(err), nil)
	case errors.Is(err, core.ErrForbidden):
		fail(w, http.StatusForbidden, CodeForbidden, "You do not have permission to access this resource", detailsOut)
	default:
		httplog.SetAttrs(r.Context(), slog.String("error", err.Error()))
		slog.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		fail(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
	}
}

// clientMessage drops the field prefix of validation errors.
func clientMessage(err error) string {
	var verr *core.ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		return verr.Message
	}
	return err.Error()
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, core.ErrSessionNotFound):
		return "Time session not found"
	case errors.Is(err, core.ErrLeaveNotFound):
		return "Leave request not found"
	default:
		return "Not found"
	}
}

var errBadRequest = errors.New("bad request")

// decodeJSON reads a request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &core.ValidationError{
			Message: "Invalid JSON body",
			Details: map[string]any{"reason": err.Error()},
			Cause:   errBadRequest,
		}
	}
	return nil
}
