package handler

import (
	"context"
	"fmt"
	"net/http"

	"go-course-platform/internal/middleware"
	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

type authService interface {
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	Activate(ctx context.Context, req model.ActivationRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.Session, error)
	SocialAuth(ctx context.Context, req model.SocialAuthRequest) (model.Session, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
	Me(ctx context.Context, userID string) (model.User, error)
}

type AuthHandler struct {
	service authService
	cookies CookieConfig
}

func NewAuthHandler(service authService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	activationToken, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.Envelope{
		"message":         fmt.Sprintf("Please check your email: %s to activate your account", payload.Email),
		"activationToken": activationToken,
	})
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var payload model.ActivationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.service.Activate(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.establish(w, session)
}

func (h *AuthHandler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var payload model.SocialAuthRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.service.SocialAuth(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.establish(w, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Please login to access this resource"))
		return
	}

	if err := h.service.Logout(r.Context(), user.ID.Hex()); err != nil {
		writeError(w, err)
		return
	}

	h.cookies.clearSession(w)
	writeSuccess(w, http.StatusOK, model.Envelope{"message": "Logout successful"})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var raw string
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		raw = cookie.Value
	}

	session, err := h.service.Refresh(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.setSession(w, session)
	writeSuccess(w, http.StatusOK, model.Envelope{"accessToken": session.AccessToken})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Please login to access this resource"))
		return
	}

	user, err := h.service.Me(r.Context(), identity.ID.Hex())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.Envelope{"user": user})
}

func (h *AuthHandler) establish(w http.ResponseWriter, session model.Session) {
	h.cookies.setSession(w, session)
	writeSuccess(w, http.StatusOK, model.Envelope{
		"user":        session.User,
		"accessToken": session.AccessToken,
	})
}
