package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"go-course-platform/internal/middleware"
	"go-course-platform/internal/model"
)

type stubAuthService struct {
	register   func(model.RegisterRequest) (string, error)
	activate   func(model.ActivationRequest) (model.User, error)
	login      func(model.LoginRequest) (model.Session, error)
	socialAuth func(model.SocialAuthRequest) (model.Session, error)
	logout     func(string) error
	refresh    func(string) (model.Session, error)
	me         func(string) (model.User, error)
}

func (s *stubAuthService) Register(_ context.Context, req model.RegisterRequest) (string, error) {
	return s.register(req)
}

func (s *stubAuthService) Activate(_ context.Context, req model.ActivationRequest) (model.User, error) {
	return s.activate(req)
}

func (s *stubAuthService) Login(_ context.Context, req model.LoginRequest) (model.Session, error) {
	return s.login(req)
}

func (s *stubAuthService) SocialAuth(_ context.Context, req model.SocialAuthRequest) (model.Session, error) {
	return s.socialAuth(req)
}

func (s *stubAuthService) Logout(_ context.Context, userID string) error {
	return s.logout(userID)
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (model.Session, error) {
	return s.refresh(refreshToken)
}

func (s *stubAuthService) Me(_ context.Context, userID string) (model.User, error) {
	return s.me(userID)
}

func testUser() model.User {
	return model.User{
		ID:       bson.NewObjectID(),
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "$2a$10$secret",
		Role:     model.RoleStudent,
		Verified: true,
	}
}

func testSession(user model.User) model.Session {
	now := time.Now()
	return model.Session{
		AccessToken:      "access-token",
		RefreshToken:     "refresh-token",
		AccessExpiresAt:  now.Add(5 * time.Minute),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
		User:             user,
	}
}

func testCookies() CookieConfig {
	return CookieConfig{AccessTTL: 5 * time.Minute, RefreshTTL: 7 * 24 * time.Hour}
}

func jsonRequest(t *testing.T, method string, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, user model.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), &user))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
