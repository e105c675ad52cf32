package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
)

type envelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func respondCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Data: data})
}

func respondAccepted(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusAccepted, envelope{Data: data})
}

func respondErrorWith(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain sentinels onto HTTP statuses. Anything unmapped
// is a 500 with the details kept out of the response body.
func respondError(w http.ResponseWriter, log *zerolog.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondErrorWith(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		respondErrorWith(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		respondErrorWith(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
	case errors.Is(err, domain.ErrForbidden):
		respondErrorWith(w, http.StatusForbidden, "FORBIDDEN", "You do not own this resource", nil)
	case errors.Is(err, domain.ErrNotFound):
		respondErrorWith(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		respondErrorWith(w, http.StatusConflict, "ALREADY_EXISTS", "Resource already exists", nil)
	case errors.Is(err, domain.ErrQuotaExceeded):
		respondErrorWith(w, http.StatusBadRequest, "QUOTA_EXCEEDED", err.Error(), nil)
	case errors.Is(err, domain.ErrOTPExpired):
		respondErrorWith(w, http.StatusGone, "OTP_EXPIRED", err.Error(), nil)
	case errors.Is(err, domain.ErrOTPMismatch):
		respondErrorWith(w, http.StatusBadRequest, "OTP_MISMATCH", err.Error(), nil)
	case errors.Is(err, domain.ErrRateLimited):
		respondErrorWith(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down", nil)
	case errors.Is(err, domain.ErrQueueUnavailable):
		respondErrorWith(w, http.StatusServiceUnavailable, "QUEUE_UNAVAILABLE", "Job queue is unavailable, try again later", nil)
	default:
		log.Error().Err(err).Msg("unhandled error")
		respondErrorWith(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}
