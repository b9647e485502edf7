package service

import (
	"context"
	"time"

	"go-course-platform/internal/mail"
	"go-course-platform/internal/model"
)

type sessionCache interface {
	Put(ctx context.Context, userID string, snapshot []byte, ttl time.Duration) error
	Get(ctx context.Context, userID string) ([]byte, bool, error)
	Touch(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
}

type courseStore interface {
	Create(ctx context.Context, c *model.Course) error
	FindByID(ctx context.Context, id string) (model.Course, error)
	Update(ctx context.Context, id string, upd model.CourseUpdate) (model.Course, error)
}

// ActivationMailer delivers activation codes to pending registrations.
type ActivationMailer interface {
	SendActivation(ctx context.Context, to string, data mail.Activation) error
}
