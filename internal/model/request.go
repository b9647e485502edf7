package model

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar"`
}

type ActivationRequest struct {
	ActivationToken string `json:"activation_token" validate:"required"`
	ActivationCode  string `json:"activation_code" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SocialAuthRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// CreateCourseRequest mirrors Course but takes the thumbnail as image data.
type CreateCourseRequest struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	Price          *float64        `json:"price" validate:"required,gte=0"`
	EstimatedPrice *float64        `json:"estimatedPrice" validate:"omitempty,gte=0"`
	Thumbnail      string          `json:"thumbnail"`
	Tags           string          `json:"tags" validate:"required"`
	Level          string          `json:"level" validate:"required"`
	DemoURL        string          `json:"demoUrl" validate:"required"`
	Benefits       []Titled        `json:"benefits" validate:"dive"`
	Prerequisites  []Titled        `json:"prerequisites" validate:"dive"`
	CourseData     []CourseSection `json:"courseData" validate:"dive"`
}

type EditCourseRequest struct {
	Name           *string         `json:"name" validate:"omitempty,min=1"`
	Description    *string         `json:"description" validate:"omitempty,min=1"`
	Price          *float64        `json:"price" validate:"omitempty,gte=0"`
	EstimatedPrice *float64        `json:"estimatedPrice" validate:"omitempty,gte=0"`
	Thumbnail      string          `json:"thumbnail"`
	Tags           *string         `json:"tags" validate:"omitempty,min=1"`
	Level          *string         `json:"level" validate:"omitempty,min=1"`
	DemoURL        *string         `json:"demoUrl" validate:"omitempty,min=1"`
	Benefits       []Titled        `json:"benefits" validate:"omitempty,dive"`
	Prerequisites  []Titled        `json:"prerequisites" validate:"omitempty,dive"`
	CourseData     []CourseSection `json:"courseData" validate:"omitempty,dive"`
}
