package middleware

import (
	"context"
	"fmt"
	"net/http"

	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

const AccessTokenCookie = "access_token"

type authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.User, error)
}

type contextKey string

const userContextKey contextKey = "auth_user"

type AuthMiddleware struct {
	sessions authenticator
}

func NewAuthMiddleware(sessions authenticator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth resolves the access token cookie to the cached identity and
// stores it in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw string
		if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
			raw = cookie.Value
		}

		user, err := m.sessions.Authenticate(r.Context(), raw)
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
	})
}

// RequireRoles admits only identities whose role is in allowedRoles. It must
// be mounted after RequireAuth.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	roleSet := map[model.Role]struct{}{}
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, apierror.Unauthorized("Please login to access this resource"))
				return
			}

			if _, allowed := roleSet[user.Role]; !allowed {
				writeError(w, apierror.Forbidden(fmt.Sprintf("Role: %s is not allowed to access %s", user.Role, r.URL.Path)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok && user != nil
}
