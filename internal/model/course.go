package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserSummary is the author snapshot embedded in reviews and comments.
type UserSummary struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Avatar *Image `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type Comment struct {
	User           UserSummary `bson:"user" json:"user"`
	Comment        string      `bson:"comment" json:"comment"`
	CommentReplies []Comment   `bson:"commentReplies" json:"commentReplies"`
}

type Review struct {
	User           UserSummary `bson:"user" json:"user"`
	Rating         float64     `bson:"rating" json:"rating"`
	Comment        string      `bson:"comment" json:"comment"`
	CommentReplies []Comment   `bson:"commentReplies" json:"commentReplies"`
}

type Link struct {
	Title string `bson:"title" json:"title" validate:"required"`
	URL   string `bson:"url" json:"url" validate:"required,url"`
}

type Titled struct {
	Title string `bson:"title" json:"title" validate:"required"`
}

type CourseSection struct {
	Title        string    `bson:"title" json:"title" validate:"required"`
	Description  string    `bson:"description" json:"description"`
	VideoURL     string    `bson:"videoUrl" json:"videoUrl"`
	VideoSection string    `bson:"videoSection" json:"videoSection"`
	VideoLength  float64   `bson:"videoLength" json:"videoLength" validate:"gte=0"`
	VideoPlayer  string    `bson:"videoPlayer" json:"videoPlayer"`
	Links        []Link    `bson:"links" json:"links" validate:"dive"`
	Suggestions  string    `bson:"suggestions" json:"suggestions"`
	Questions    []Comment `bson:"questions" json:"questions"`
}

type Course struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string          `bson:"name" json:"name"`
	Description    string          `bson:"description" json:"description"`
	Price          float64         `bson:"price" json:"price"`
	EstimatedPrice *float64        `bson:"estimatedPrice,omitempty" json:"estimatedPrice,omitempty"`
	Thumbnail      *Image          `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Tags           string          `bson:"tags" json:"tags"`
	Level          string          `bson:"level" json:"level"`
	DemoURL        string          `bson:"demoUrl" json:"demoUrl"`
	Benefits       []Titled        `bson:"benefits" json:"benefits"`
	Prerequisites  []Titled        `bson:"prerequisites" json:"prerequisites"`
	Reviews        []Review        `bson:"reviews" json:"reviews"`
	CourseData     []CourseSection `bson:"courseData" json:"courseData"`
	Ratings        float64         `bson:"ratings" json:"ratings"`
	Purchased      int             `bson:"purchased" json:"purchased"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// CourseUpdate carries the fields of an edit. Nil fields are left untouched.
type CourseUpdate struct {
	Name           *string
	Description    *string
	Price          *float64
	EstimatedPrice *float64
	Thumbnail      *Image
	Tags           *string
	Level          *string
	DemoURL        *string
	Benefits       []Titled
	Prerequisites  []Titled
	CourseData     []CourseSection
}

func (u CourseUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.EstimatedPrice == nil &&
		u.Thumbnail == nil && u.Tags == nil && u.Level == nil && u.DemoURL == nil &&
		u.Benefits == nil && u.Prerequisites == nil && u.CourseData == nil
}
