package service

import (
	"context"
	"log/slog"

	"go-course-platform/internal/media"
	"go-course-platform/internal/model"
	"go-course-platform/pkg/apierror"
)

type CourseService struct {
	courses courseStore
	media   media.Store
}

func NewCourseService(courses courseStore, store media.Store) *CourseService {
	return &CourseService{courses: courses, media: store}
}

func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (model.Course, error) {
	course := model.Course{
		Name:           req.Name,
		Description:    req.Description,
		EstimatedPrice: req.EstimatedPrice,
		Tags:           req.Tags,
		Level:          req.Level,
		DemoURL:        req.DemoURL,
		Benefits:       req.Benefits,
		Prerequisites:  req.Prerequisites,
		CourseData:     req.CourseData,
	}
	if req.Price != nil {
		course.Price = *req.Price
	}

	if req.Thumbnail != "" {
		thumb, err := s.uploadThumbnail(ctx, req.Thumbnail)
		if err != nil {
			return model.Course{}, err
		}
		course.Thumbnail = &thumb
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		if course.Thumbnail != nil {
			s.discard(ctx, course.Thumbnail.PublicID)
		}
		return model.Course{}, err
	}

	return course, nil
}

// Edit applies the provided fields. A new thumbnail replaces the old one,
// which is deleted after the update went through.
func (s *CourseService) Edit(ctx context.Context, id string, req model.EditCourseRequest) (model.Course, error) {
	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return model.Course{}, err
	}

	upd := model.CourseUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		EstimatedPrice: req.EstimatedPrice,
		Tags:           req.Tags,
		Level:          req.Level,
		DemoURL:        req.DemoURL,
		Benefits:       req.Benefits,
		Prerequisites:  req.Prerequisites,
		CourseData:     req.CourseData,
	}

	if req.Thumbnail != "" {
		thumb, err := s.uploadThumbnail(ctx, req.Thumbnail)
		if err != nil {
			return model.Course{}, err
		}
		upd.Thumbnail = &thumb
	}

	if upd.Empty() {
		return existing, nil
	}

	updated, err := s.courses.Update(ctx, id, upd)
	if err != nil {
		if upd.Thumbnail != nil {
			s.discard(ctx, upd.Thumbnail.PublicID)
		}
		return model.Course{}, err
	}

	if upd.Thumbnail != nil && existing.Thumbnail != nil && existing.Thumbnail.PublicID != "" {
		s.discard(ctx, existing.Thumbnail.PublicID)
	}

	return updated, nil
}

func (s *CourseService) uploadThumbnail(ctx context.Context, raw string) (model.Image, error) {
	data, contentType, err := media.DecodeImageData(raw)
	if err != nil {
		return model.Image{}, err
	}

	thumb, err := s.media.Upload(ctx, media.FolderCourses, data, contentType)
	if err != nil {
		return model.Image{}, apierror.Upstream("Failed to upload thumbnail", err)
	}
	return thumb, nil
}

func (s *CourseService) discard(ctx context.Context, publicID string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		slog.Warn("failed to delete media asset", "public_id", publicID, "error", err)
	}
}
