package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-course-platform/internal/model"
)

type courseService interface {
	Create(ctx context.Context, req model.CreateCourseRequest) (model.Course, error)
	Edit(ctx context.Context, id string, req model.EditCourseRequest) (model.Course, error)
}

type CourseHandler struct {
	service courseService
}

func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateCourseRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.Envelope{
		"message": "Course created successfully",
		"course":  course,
	})
}

func (h *CourseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var payload model.EditCourseRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.service.Edit(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.Envelope{
		"message": "Course updated successfully",
		"course":  course,
	})
}
