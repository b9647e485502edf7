package handler

import (
	"net/http"
	"time"

	"go-course-platform/internal/middleware"
	"go-course-platform/internal/model"
)

const refreshTokenCookie = "refresh_token"

// CookieConfig controls the session cookies. Secure is only set in
// production so local development works over plain HTTP.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c CookieConfig) setSession(w http.ResponseWriter, session model.Session) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, session.AccessToken, session.AccessExpiresAt, c.AccessTTL))
	http.SetCookie(w, c.cookie(refreshTokenCookie, session.RefreshToken, session.RefreshExpiresAt, c.RefreshTTL))
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		cookie := c.cookie(name, "", time.Unix(0, 0), 0)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c CookieConfig) cookie(name string, value string, expires time.Time, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
