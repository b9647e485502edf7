package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-course-platform/internal/config"
	"go-course-platform/internal/handler"
	"go-course-platform/internal/middleware"
	"go-course-platform/internal/model"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Course  *handler.CourseHandler
	Health  *handler.HealthHandler
	Metrics http.Handler
	// Media is nil unless assets are stored on the local disk.
	Media http.Handler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, metrics *middleware.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(metrics.Handler)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Health)
	r.Get("/test", h.Health.Test)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	if h.Media != nil {
		r.Method(http.MethodGet, "/media/*", h.Media)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.MaxBody(cfg.MaxBodyBytes))
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register", h.Auth.Register)
		api.Post("/activate-user", h.Auth.Activate)
		api.Post("/login", h.Auth.Login)
		api.Post("/social-auth", h.Auth.SocialAuth)
		api.Get("/refresh", h.Auth.Refresh)

		api.Group(func(authed chi.Router) {
			authed.Use(authMiddleware.RequireAuth)

			authed.Get("/logout", h.Auth.Logout)
			authed.Get("/me", h.Auth.Me)
			authed.Put("/update-user", h.User.UpdateInfo)
			authed.Put("/update-password", h.User.UpdatePassword)
			authed.Put("/update-avatar", h.User.UpdateAvatar)

			authed.With(authMiddleware.RequireRoles(model.RoleAdmin)).Post("/create-course", h.Course.Create)
			authed.With(authMiddleware.RequireRoles(model.RoleAdmin)).Put("/edit-course/{id}", h.Course.Edit)
		})
	})

	return r
}
