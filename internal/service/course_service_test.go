package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"go-course-platform/internal/media"
	"go-course-platform/internal/model"
	"go-course-platform/internal/repository"
)

type fakeCourseStore struct {
	mu        sync.Mutex
	byID      map[bson.ObjectID]model.Course
	createErr error
	updateErr error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{byID: map[bson.ObjectID]model.Course{}}
}

func (f *fakeCourseStore) Create(_ context.Context, c *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = bson.NewObjectID()
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCourseStore) FindByID(_ context.Context, id string) (model.Course, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return model.Course{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[oid]
	if !ok {
		return model.Course{}, model.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) Update(_ context.Context, id string, upd model.CourseUpdate) (model.Course, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return model.Course{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return model.Course{}, f.updateErr
	}
	c, ok := f.byID[oid]
	if !ok {
		return model.Course{}, model.ErrCourseNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Price != nil {
		c.Price = *upd.Price
	}
	if upd.Thumbnail != nil {
		c.Thumbnail = upd.Thumbnail
	}
	if upd.Benefits != nil {
		c.Benefits = upd.Benefits
	}
	f.byID[oid] = c
	return c, nil
}

func createRequest() model.CreateCourseRequest {
	price := 29.99
	return model.CreateCourseRequest{
		Name:        "Go fundamentals",
		Description: "From zero to services",
		Price:       &price,
		Tags:        "go,backend",
		Level:       "beginner",
		DemoURL:     "https://videos.example.com/demo",
		Benefits:    []model.Titled{{Title: "Write idiomatic Go"}},
	}
}

func TestCreateCourse(t *testing.T) {
	t.Run("without thumbnail", func(t *testing.T) {
		store := new(media.MockStore)
		courses := newFakeCourseStore()
		svc := NewCourseService(courses, store)

		course, err := svc.Create(context.Background(), createRequest())
		require.NoError(t, err)
		assert.False(t, course.ID.IsZero())
		assert.Equal(t, 29.99, course.Price)
		assert.Nil(t, course.Thumbnail)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("with thumbnail", func(t *testing.T) {
		store := new(media.MockStore)
		svc := NewCourseService(newFakeCourseStore(), store)
		thumb := model.Image{PublicID: "courses/t.png", URL: "http://media/courses/t.png"}
		store.On("Upload", mock.Anything, media.FolderCourses, mock.Anything, "image/png").Return(thumb, nil)

		req := createRequest()
		req.Thumbnail = pngDataURI(t, 20, 10)
		course, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, &thumb, course.Thumbnail)
		store.AssertExpectations(t)
	})

	t.Run("failed insert removes the thumbnail", func(t *testing.T) {
		store := new(media.MockStore)
		courses := newFakeCourseStore()
		courses.createErr = errors.New("insert failed")
		svc := NewCourseService(courses, store)
		store.On("Upload", mock.Anything, media.FolderCourses, mock.Anything, mock.Anything).Return(model.Image{PublicID: "courses/t.png"}, nil)
		store.On("Delete", mock.Anything, "courses/t.png").Return(nil)

		req := createRequest()
		req.Thumbnail = pngDataURI(t, 20, 10)
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		store.AssertExpectations(t)
	})

	t.Run("upload failure stores nothing", func(t *testing.T) {
		store := new(media.MockStore)
		courses := newFakeCourseStore()
		svc := NewCourseService(courses, store)
		store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(model.Image{}, errors.New("host down"))

		req := createRequest()
		req.Thumbnail = pngDataURI(t, 20, 10)
		_, err := svc.Create(context.Background(), req)
		requireAPIError(t, err, http.StatusBadRequest, "Failed to upload thumbnail")
		assert.Empty(t, courses.byID)
	})
}

func TestEditCourse(t *testing.T) {
	seed := func(t *testing.T, courses *fakeCourseStore) model.Course {
		t.Helper()
		c := model.Course{Name: "Old", Price: 10, Thumbnail: &model.Image{PublicID: "courses/old.png", URL: "o"}}
		require.NoError(t, courses.Create(context.Background(), &c))
		return c
	}

	t.Run("partial update", func(t *testing.T) {
		store := new(media.MockStore)
		courses := newFakeCourseStore()
		svc := NewCourseService(courses, store)
		existing := seed(t, courses)

		name := "New"
		updated, err := svc.Edit(context.Background(), existing.ID.Hex(), model.EditCourseRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Name)
		assert.Equal(t, 10.0, updated.Price)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("new thumbnail replaces the old one", func(t *testing.T) {
		store := new(media.MockStore)
		courses := newFakeCourseStore()
		svc := NewCourseService(courses, store)
		existing := seed(t, courses)

		thumb := model.Image{PublicID: "courses/new.png", URL: "n"}
		store.On("Upload", mock.Anything, media.FolderCourses, mock.Anything, "image/png").Return(thumb, nil)
		store.On("Delete", mock.Anything, "courses/old.png").Return(nil)

		updated, err := svc.Edit(context.Background(), existing.ID.Hex(), model.EditCourseRequest{Thumbnail: pngDataURI(t, 8, 8)})
		require.NoError(t, err)
		assert.Equal(t, &thumb, updated.Thumbnail)
		store.AssertExpectations(t)
	})

	t.Run("failed update keeps the old thumbnail", func(t *testing.T) {
		store := new(media.MockStore)
		courses := newFakeCourseStore()
		svc := NewCourseService(courses, store)
		existing := seed(t, courses)
		courses.updateErr = errors.New("update failed")

		store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(model.Image{PublicID: "courses/new.png"}, nil)
		store.On("Delete", mock.Anything, "courses/new.png").Return(nil)

		_, err := svc.Edit(context.Background(), existing.ID.Hex(), model.EditCourseRequest{Thumbnail: pngDataURI(t, 8, 8)})
		require.Error(t, err)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Delete", mock.Anything, "courses/old.png")
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := NewCourseService(newFakeCourseStore(), new(media.MockStore))
		_, err := svc.Edit(context.Background(), "nope", model.EditCourseRequest{})
		requireAPIError(t, err, http.StatusNotFound, "Resource not found. Invalid: _id")
	})

	t.Run("missing course", func(t *testing.T) {
		svc := NewCourseService(newFakeCourseStore(), new(media.MockStore))
		_, err := svc.Edit(context.Background(), bson.NewObjectID().Hex(), model.EditCourseRequest{})
		require.ErrorIs(t, err, model.ErrCourseNotFound)
	})
}
