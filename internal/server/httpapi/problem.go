package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

// Error codes exposed in the envelope. The set is fixed; clients switch on
// these, not on message text.
const (
	codeValidationError = "validation_error"
	codeUnauthorized    = "unauthorized"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codeConflict        = "conflict"
	codeRateLimited     = "rate_limited"
	codeInternal        = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorEnvelope is the uniform error response. correlation_id matches the
// X-Request-Id header and the server log line for the failure.
type errorEnvelope struct {
	Error         errorBody `json:"error"`
	CorrelationID string    `json:"correlation_id"`
}

// writeError renders the uniform envelope. Internal details never reach the
// client; 500 bodies carry only the correlation id.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error:         errorBody{Code: code, Message: message},
		CorrelationID: requestIDFrom(r.Context()),
	})
}

// codeForDeny matches the configured ambiguous deny status. 403 and 404 are
// deliberately interchangeable here; the policy decides once, at startup.
func (s *Server) codeForDeny() string {
	if s.denyStatus == http.StatusForbidden {
		return codeForbidden
	}
	return codeNotFound
}

// writeServiceError maps service-layer sentinels onto the envelope. Anything
// unmatched is masked as a 500 and logged with the correlation id.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeError(w, r, http.StatusUnprocessableEntity, codeValidationError, err.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		s.writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorDenied):
		s.writeError(w, r, s.denyStatus, s.codeForDeny(), "recipe not available")
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeError(w, r, http.StatusConflict, codeConflict, "resource already exists")
	default:
		s.logger.Error(r.Context(), "request failed",
			"error", err.Error(),
			"path", r.URL.Path,
			"method", r.Method,
			"correlation_id", requestIDFrom(r.Context()),
		)
		s.writeError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// writeJSON renders a success payload.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type ctxKey string

const (
	requestIDKey ctxKey = "requestID"
	userKey      ctxKey = "user"
	tokenKey     ctxKey = "token"
)

// requestIDFrom returns the correlation id stored by the request-id middleware.
func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
