package handler

import (
	"context"
	"net/http"

	"go-course-platform/internal/middleware"
	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

type userService interface {
	UpdateInfo(ctx context.Context, userID string, req model.UpdateUserRequest) (model.User, error)
	UpdatePassword(ctx context.Context, userID string, req model.UpdatePasswordRequest) (model.User, error)
	UpdateAvatar(ctx context.Context, userID string, req model.UpdateAvatarRequest) (model.User, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateUserRequest
	update(w, r, &payload, "User updated successfully", func(ctx context.Context, userID string) (model.User, error) {
		return h.service.UpdateInfo(ctx, userID, payload)
	})
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdatePasswordRequest
	update(w, r, &payload, "User password updated successfully", func(ctx context.Context, userID string) (model.User, error) {
		return h.service.UpdatePassword(ctx, userID, payload)
	})
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateAvatarRequest
	update(w, r, &payload, "User avatar updated successfully", func(ctx context.Context, userID string) (model.User, error) {
		return h.service.UpdateAvatar(ctx, userID, payload)
	})
}

// update decodes payload, runs apply for the signed-in user and writes the
// updated user.
func update(w http.ResponseWriter, r *http.Request, payload any, message string, apply func(context.Context, string) (model.User, error)) {
	identity, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Please login to access this resource"))
		return
	}

	if err := decodeJSON(r, payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := apply(r.Context(), identity.ID.Hex())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.Envelope{"message": message, "user": user})
}
