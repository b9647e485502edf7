package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

type stubCourseService struct {
	created model.CreateCourseRequest
	editID  string
	edited  model.EditCourseRequest
	err     error
}

func (s *stubCourseService) Create(_ context.Context, req model.CreateCourseRequest) (model.Course, error) {
	s.created = req
	if s.err != nil {
		return model.Course{}, s.err
	}
	return model.Course{ID: bson.NewObjectID(), Name: req.Name, Price: *req.Price}, nil
}

func (s *stubCourseService) Edit(_ context.Context, id string, req model.EditCourseRequest) (model.Course, error) {
	s.editID, s.edited = id, req
	if s.err != nil {
		return model.Course{}, s.err
	}
	course := model.Course{Name: "Go Basics"}
	if req.Name != nil {
		course.Name = *req.Name
	}
	return course, nil
}

func validCourse() map[string]any {
	return map[string]any{
		"name":        "Go Basics",
		"description": "Learn Go",
		"price":       0,
		"tags":        "go",
		"level":       "beginner",
		"demoUrl":     "https://example.com/demo",
		"benefits":    []map[string]string{{"title": "Concurrency"}},
		"courseData": []map[string]any{{
			"title": "Intro",
			"links": []map[string]string{{"title": "Docs", "url": "https://go.dev"}},
		}},
	}
}

func TestCreateCourse(t *testing.T) {
	t.Parallel()

	svc := &stubCourseService{}
	h := NewCourseHandler(svc)

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, http.MethodPost, "/api/v1/create-course", validCourse()))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Course created successfully", body["message"])
	assert.Equal(t, "Go Basics", body["course"].(map[string]any)["name"])
	require.NotNil(t, svc.created.Price)
	assert.Zero(t, *svc.created.Price)
}

func TestCreateCourseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		message string
	}{
		{name: "missing name", mutate: func(c map[string]any) { delete(c, "name") }, message: "Please enter your name"},
		{name: "missing price", mutate: func(c map[string]any) { delete(c, "price") }, message: "Please enter your price"},
		{name: "negative price", mutate: func(c map[string]any) { c["price"] = -1 }, message: "price must be greater than or equal to 0"},
		{name: "bad link", mutate: func(c map[string]any) {
			c["courseData"] = []map[string]any{{"title": "Intro", "links": []map[string]string{{"title": "Docs", "url": "not a url"}}}}
		}, message: "url must be a valid URL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCourseService{}
			h := NewCourseHandler(svc)
			course := validCourse()
			tc.mutate(course)

			rec := httptest.NewRecorder()
			h.Create(rec, jsonRequest(t, http.MethodPost, "/api/v1/create-course", course))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeBody(t, rec)["message"])
			assert.Empty(t, svc.created.Name)
		})
	}
}

func TestEditCourse(t *testing.T) {
	t.Parallel()

	svc := &stubCourseService{}
	r := chi.NewRouter()
	r.Put("/api/v1/edit-course/{id}", NewCourseHandler(svc).Edit)

	id := bson.NewObjectID().Hex()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(t, http.MethodPut, "/api/v1/edit-course/"+id, map[string]any{"name": "Advanced Go"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Course updated successfully", body["message"])
	assert.Equal(t, "Advanced Go", body["course"].(map[string]any)["name"])
	assert.Equal(t, id, svc.editID)
	assert.Nil(t, svc.edited.Price)
}

func TestEditCourseNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubCourseService{err: apierror.NotFound("Resource not found. Invalid: _id", "zzz")}
	r := chi.NewRouter()
	r.Put("/api/v1/edit-course/{id}", NewCourseHandler(svc).Edit)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(t, http.MethodPut, "/api/v1/edit-course/zzz", map[string]any{"name": "x"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found. Invalid: _id", decodeBody(t, rec)["message"])
}
