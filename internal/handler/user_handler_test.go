package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

type stubUserService struct {
	lastUserID string
	info       model.UpdateUserRequest
	password   model.UpdatePasswordRequest
	avatar     model.UpdateAvatarRequest
	err        error
}

func (s *stubUserService) UpdateInfo(_ context.Context, userID string, req model.UpdateUserRequest) (model.User, error) {
	s.lastUserID, s.info = userID, req
	return s.result(func(u *model.User) { u.Name = req.Name })
}

func (s *stubUserService) UpdatePassword(_ context.Context, userID string, req model.UpdatePasswordRequest) (model.User, error) {
	s.lastUserID, s.password = userID, req
	return s.result(nil)
}

func (s *stubUserService) UpdateAvatar(_ context.Context, userID string, req model.UpdateAvatarRequest) (model.User, error) {
	s.lastUserID, s.avatar = userID, req
	return s.result(func(u *model.User) { u.Avatar = &model.Image{PublicID: "avatars/a.png", URL: "http://media/avatars/a.png"} })
}

func (s *stubUserService) result(mutate func(*model.User)) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	user := testUser()
	if mutate != nil {
		mutate(&user)
	}
	return user, nil
}

func TestUpdateUserInfo(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{}
	h := NewUserHandler(svc)
	user := testUser()

	rec := httptest.NewRecorder()
	h.UpdateInfo(rec, asUser(jsonRequest(t, http.MethodPut, "/api/v1/update-user", map[string]string{"name": "Grace"}), user))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User updated successfully", body["message"])
	assert.Equal(t, "Grace", body["user"].(map[string]any)["name"])
	assert.Equal(t, user.ID.Hex(), svc.lastUserID)
}

func TestUpdateUserInfoRejectsBadEmail(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateInfo(rec, asUser(jsonRequest(t, http.MethodPut, "/api/v1/update-user", map[string]string{"email": "nope"}), testUser()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email must be a valid email", decodeBody(t, rec)["message"])
	assert.Empty(t, svc.lastUserID)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdatePassword(rec, asUser(jsonRequest(t, http.MethodPut, "/api/v1/update-password", map[string]string{
		"oldPassword": "secret1", "newPassword": "secret2",
	}), testUser()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User password updated successfully", decodeBody(t, rec)["message"])
	assert.Equal(t, "secret2", svc.password.NewPassword)

	svc.err = apierror.Validation("Invalid old password")
	rec = httptest.NewRecorder()
	h.UpdatePassword(rec, asUser(jsonRequest(t, http.MethodPut, "/api/v1/update-password", map[string]string{
		"oldPassword": "wrong1", "newPassword": "secret2",
	}), testUser()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid old password", decodeBody(t, rec)["message"])
}

func TestUpdateAvatar(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateAvatar(rec, asUser(jsonRequest(t, http.MethodPut, "/api/v1/update-avatar", map[string]string{
		"avatar": "data:image/png;base64,AAAA",
	}), testUser()))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User avatar updated successfully", body["message"])
	avatar := body["user"].(map[string]any)["avatar"].(map[string]any)
	assert.Equal(t, "avatars/a.png", avatar["public_id"])
}

func TestUserUpdatesRequireIdentity(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateAvatar(rec, jsonRequest(t, http.MethodPut, "/api/v1/update-avatar", map[string]string{"avatar": "x"}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.lastUserID)
}
