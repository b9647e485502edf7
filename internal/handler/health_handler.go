package handler

import (
	"context"
	"net/http"
	"time"

	"go-course-platform/internal/model"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	services := map[string]string{}
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			services[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		services[name] = "up"
	}

	writeJSON(w, status, model.Envelope{
		"success":  status == http.StatusOK,
		"services": services,
	})
}

func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, model.Envelope{"message": "API is working"})
}

// NotFound and MethodNotAllowed keep unknown routes inside the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, model.ErrorResponse{Message: "Route " + r.URL.Path + " not found", Code: "NOT_FOUND"})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Message: "Method not allowed", Code: "METHOD_NOT_ALLOWED"})
}
