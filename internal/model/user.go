package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// Image is an asset held by the media store.
type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type CourseRef struct {
	CourseID string `bson:"courseId" json:"courseId"`
}

type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password,omitempty" json:"-"` // bcrypt hash
	Avatar    *Image        `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role      Role          `bson:"role" json:"role"`
	Verified  bool          `bson:"isVerified" json:"isVerified"`
	Courses   []CourseRef   `bson:"courses" json:"courses"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PendingUser is a registration that has not been activated yet. It only
// lives sealed inside the activation token.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Avatar       string `json:"avatar,omitempty"`
}
