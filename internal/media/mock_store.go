package media

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-course-platform/internal/model"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upload(ctx context.Context, folder string, data []byte, contentType string) (model.Image, error) {
	args := m.Called(ctx, folder, data, contentType)
	return args.Get(0).(model.Image), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}
