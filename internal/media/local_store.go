package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-course-platform/internal/model"
)

// LocalStore keeps assets on disk and serves them under a public base URL.
// It stands in for the asset host in development.
type LocalStore struct {
	validator *PathValidator
	baseURL   string
}

func NewLocalStore(root string, baseURL string) (*LocalStore, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}

	return &LocalStore{validator: validator, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Root() string {
	return s.validator.RootAbs()
}

func (s *LocalStore) Upload(ctx context.Context, folder string, data []byte, contentType string) (model.Image, error) {
	if err := ctx.Err(); err != nil {
		return model.Image{}, err
	}

	publicID := newPublicID(folder, contentType)
	resolved, err := s.validator.Resolve(publicID)
	if err != nil {
		return model.Image{}, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return model.Image{}, fmt.Errorf("create media folder: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return model.Image{}, fmt.Errorf("write media file: %w", err)
	}

	return model.Image{PublicID: publicID, URL: s.baseURL + "/" + publicID}, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resolved, err := s.validator.Resolve(publicID)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}
