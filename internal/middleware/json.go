package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-course-platform/internal/cache"
	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// writeError reports failures raised before a handler runs.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		writeJSONError(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
	case errors.Is(err, cache.ErrUnavailable):
		slog.Error("session cache unavailable", "error", err)
		unavailable := apierror.Unavailable("Service temporarily unavailable")
		writeJSONError(w, unavailable.HTTPStatus, unavailable.Code, unavailable.Message)
	default:
		slog.Error("unhandled error in middleware", "error", err)
		internal := apierror.Internal()
		writeJSONError(w, internal.HTTPStatus, internal.Code, internal.Message)
	}
}
