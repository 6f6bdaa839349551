package respond

import (
	"encoding/json"
	"net/http"

	"github.com/satriastudio/studio-be/internal/logging"
)

// Machine-readable error codes shared by all handlers.
const (
	CodeInvalidPayload     = "invalid_payload"
	CodeValidation         = "validation_error"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeRateLimited        = "rate_limit_exceeded"
	CodeUnavailable        = "service_unavailable"
	CodeInternal           = "internal_server_error"
)

// ErrorBody is the standard error payload. It never carries internal detail.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes payload as the response body.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.WithError(err).Warn("respond: encode payload failed")
	}
}

// Error writes an error response with a code and public message.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Code: code, Message: message})
}
