package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"go-course-platform/internal/cache"
	"go-course-platform/internal/model"
	"go-course-platform/internal/repository"
	"go-course-platform/internal/token"
	"go-course-platform/pkg/apierror"
)

// writeSuccess sends {"success":true, ...payload}.
func writeSuccess(w http.ResponseWriter, status int, payload model.Envelope) {
	body := model.Envelope{"success": true}
	for key, value := range payload {
		body[key] = value
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError is the single place where errors become HTTP responses.
// Storage, token and cache errors are mapped onto the apierror kinds and
// anything unrecognized is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, err error) {
	apiErr := translate(err)

	writeJSON(w, apiErr.HTTPStatus, model.ErrorResponse{
		Success: false,
		Message: apiErr.Message,
		Code:    apiErr.Code,
	})
}

func translate(err error) *apierror.APIError {
	var apiErr *apierror.APIError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &apiErr):
		if apiErr.HTTPStatus >= http.StatusInternalServerError {
			slog.Error("request failed", "code", apiErr.Code, "error", apiErr.Error())
		}
		return apiErr
	case errors.As(err, &maxBytesErr):
		return apierror.New("PAYLOAD_TOO_LARGE", "Request body too large", "", http.StatusRequestEntityTooLarge)
	case mongo.IsDuplicateKeyError(err):
		return repository.TranslateWriteError(err).(*apierror.APIError)
	case errors.Is(err, bson.ErrInvalidHex):
		return apierror.NotFound("Resource not found. Invalid: _id", "")
	case errors.Is(err, model.ErrUserNotFound):
		return apierror.NotFound("User not found", "")
	case errors.Is(err, model.ErrCourseNotFound):
		return apierror.NotFound("Course not found", "")
	case errors.Is(err, mongo.ErrNoDocuments):
		return apierror.NotFound("Resource not found", "")
	case errors.Is(err, token.ErrTokenExpired), errors.Is(err, token.ErrTokenInvalid):
		return apierror.Unauthorized("Token is invalid or expired")
	case errors.Is(err, cache.ErrUnavailable):
		slog.Error("session cache unavailable", "error", err)
		return apierror.Unavailable("Service temporarily unavailable")
	default:
		slog.Error("unhandled error in writeError", "error", err)
		return apierror.Internal()
	}
}
