// Package media stores uploaded images (avatars, course thumbnails) with an
// external asset host and hands back their public id and URL.
package media

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"go-course-platform/internal/model"
)

const (
	FolderAvatars = "avatars"
	FolderCourses = "courses"
)

// Store is an opaque asset host: upload bytes, get {public_id, url}; delete by id.
type Store interface {
	Upload(ctx context.Context, folder string, data []byte, contentType string) (model.Image, error)
	Delete(ctx context.Context, publicID string) error
}

func newPublicID(folder string, contentType string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	name := uuid.NewString() + extensionFor(contentType)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
