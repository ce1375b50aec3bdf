package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
)

type APIResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      interface{}       `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now().UTC(),
	}
}

// StatusFor is the single mapping from error kind to HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON marshals v before touching the response, so a value that cannot be encoded
// becomes a 500 error body instead of a truncated success.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse("internal server error", "encode_error"))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// WriteError renders err in the uniform error body. Unexpected errors are logged with
// their cause and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	resp := ErrorResponse(err.Error(), kind.String())
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		// The taxonomy message, without the wrapping context added on the way up.
		resp.Message = appErr.Error()
		resp.Fields = appErr.Fields
	}

	switch kind {
	case apperr.KindUnexpected:
		log.Error("API", fmt.Sprintf("%s %s failed: %v", r.Method, r.URL.Path, err))
		resp.Message = "internal server error"
	case apperr.KindUnauthenticated, apperr.KindForbidden:
		log.LogSecurity(strings.ToUpper(kind.String()), fmt.Sprintf("%s %s: %s", r.Method, r.URL.Path, err.Error()))
	default:
		log.Debug("API", fmt.Sprintf("%s %s -> %d: %s", r.Method, r.URL.Path, status, err.Error()))
	}

	if kind == apperr.KindUnauthenticated {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, resp)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
