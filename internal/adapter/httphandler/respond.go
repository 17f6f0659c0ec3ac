package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/vip-store/internal/core/domain"
)

const internalErrorMessage = "Something went wrong!"

const (
	codeValidation        = "validation_error"
	codeAuthentication    = "authentication_error"
	codeAuthorization     = "authorization_error"
	codeNotFound          = "not_found"
	codeInvalidTransition = "invalid_transition"
	codeStorage           = "storage_error"
	codeRateLimited       = "rate_limited"
	codeInternal          = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Message: message, Code: code})
}

// writeError maps a service error onto the response status and body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	const op = "writeError"
	log := slog.With("op", op, "path", r.URL.Path)

	var (
		vErr domain.ValidationError
		tErr domain.TransitionError
	)

	switch {
	case errors.As(err, &vErr):
		writeMessage(w, http.StatusBadRequest, codeValidation, vErr.Error())
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusBadRequest, codeValidation, "Invalid request")
	case errors.Is(err, domain.ErrAuthentication):
		writeMessage(w, http.StatusUnauthorized, codeAuthentication, "Invalid credentials")
	case errors.Is(err, domain.ErrAuthorization):
		writeMessage(w, http.StatusForbidden, codeAuthorization, "Forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, codeNotFound, "Not found")
	case errors.As(err, &tErr):
		writeMessage(w, http.StatusConflict, codeInvalidTransition, tErr.Error())
	case errors.Is(err, domain.ErrConflict):
		writeMessage(w, http.StatusConflict, codeInvalidTransition, "Conflicting change, try again")
	case errors.Is(err, domain.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, codeRateLimited, "Too many attempts, try again later")
	case errors.Is(err, domain.ErrStorage):
		log.Error("storage failure", "err", err)
		writeMessage(w, http.StatusServiceUnavailable, codeStorage, "Storage unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request deadline exceeded", "err", err)
		writeMessage(w, http.StatusServiceUnavailable, codeStorage, "Storage unavailable")
	default:
		log.Error("unexpected error", "err", err)
		writeMessage(w, http.StatusInternalServerError, codeInternal, internalErrorMessage)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("", "invalid JSON body")
	}
	return nil
}
