package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-course-platform/internal/media"
	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

const avatarWidth = 150

// UserService edits the signed-in user's profile and keeps the cached
// session snapshot in step with the stored document.
type UserService struct {
	users    userStore
	sessions *SessionService
	media    media.Store
}

func NewUserService(users userStore, sessions *SessionService, store media.Store) *UserService {
	return &UserService{users: users, sessions: sessions, media: store}
}

func (s *UserService) UpdateInfo(ctx context.Context, userID string, req model.UpdateUserRequest) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if email := normalizeEmail(req.Email); email != "" && email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return model.User{}, err
		}
		if exists {
			return model.User{}, apierror.Validation("Email already exist")
		}
		user.Email = email
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}

	saved, _, err := s.save(ctx, user)
	return saved, err
}

func (s *UserService) UpdatePassword(ctx context.Context, userID string, req model.UpdatePasswordRequest) (model.User, error) {
	if req.OldPassword == "" || req.NewPassword == "" {
		return model.User{}, apierror.Validation("Please enter old and new password")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if user.Password == "" {
		return model.User{}, apierror.Validation("Invalid user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return model.User{}, apierror.Validation("Invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hash)

	saved, _, err := s.save(ctx, user)
	return saved, err
}

// UpdateAvatar uploads the new picture before touching the document. The
// upload is removed again when the document write fails. The previous
// picture is removed only once nothing references it: the document is
// saved and the cached snapshot was either rewritten or dropped.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, req model.UpdateAvatarRequest) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	data, _, err := media.DecodeImageData(req.Avatar)
	if err != nil {
		return model.User{}, err
	}

	scaled, contentType, err := media.FitWidth(data, avatarWidth)
	if err != nil {
		return model.User{}, err
	}

	uploaded, err := s.media.Upload(ctx, media.FolderAvatars, scaled, contentType)
	if err != nil {
		return model.User{}, apierror.Upstream("Failed to upload avatar", err)
	}

	previous := user.Avatar
	user.Avatar = &uploaded

	saved, synced, err := s.save(ctx, user)
	if err != nil {
		s.discard(ctx, uploaded.PublicID)
		return model.User{}, err
	}

	if synced && previous != nil && previous.PublicID != "" && !isExternalImage(previous) {
		s.discard(ctx, previous.PublicID)
	}

	return saved, nil
}

// save writes user to the database and then brings the cached snapshot in
// line. An error means nothing was written. Once the document is stored the
// call succeeds; when the snapshot cannot be rewritten the session is ended
// instead, and synced is false only if that failed as well.
func (s *UserService) save(ctx context.Context, user model.User) (model.User, bool, error) {
	if err := s.users.Update(ctx, &user); err != nil {
		return model.User{}, false, err
	}

	synced := true
	userID := user.ID.Hex()
	if err := s.sessions.StoreSnapshot(ctx, user); err != nil {
		slog.Warn("session snapshot not rewritten, ending session", "user_id", userID, "error", err)
		if err := s.sessions.Terminate(context.WithoutCancel(ctx), userID); err != nil {
			slog.Error("stale session snapshot left in cache", "user_id", userID, "error", err)
			synced = false
		}
	}

	user.Password = ""
	return user, synced, nil
}

func (s *UserService) discard(ctx context.Context, publicID string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		slog.Warn("failed to delete media asset", "public_id", publicID, "error", err)
	}
}
