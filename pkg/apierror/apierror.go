package apierror

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Validation reports bad or missing input, including an email that is already taken.
func Validation(message string) *APIError {
	return New("VALIDATION_ERROR", message, "", http.StatusBadRequest)
}

// Unauthorized reports a missing, invalid or expired credential, or a revoked session.
func Unauthorized(message string) *APIError {
	return New("UNAUTHORIZED", message, "", http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New("FORBIDDEN", message, "", http.StatusForbidden)
}

func NotFound(message string, details string) *APIError {
	return New("NOT_FOUND", message, details, http.StatusNotFound)
}

// Conflict reports a uniqueness violation detected by the storage layer.
func Conflict(message string) *APIError {
	return New("CONFLICT", message, "", http.StatusBadRequest)
}

// Upstream reports a failure of the media host or mail delivery.
func Upstream(message string, err error) *APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return New("UPSTREAM_ERROR", message, details, http.StatusBadRequest)
}

func Unavailable(message string) *APIError {
	return New("SERVICE_UNAVAILABLE", message, "", http.StatusServiceUnavailable)
}

func Internal() *APIError {
	return New("INTERNAL_ERROR", "Internal Server Error", "", http.StatusInternalServerError)
}
