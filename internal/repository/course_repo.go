package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go-course-platform/internal/database"
	"go-course-platform/internal/model"
)

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(database.CoursesCollection)}
}

func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	normalizeCourse(c)

	result, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return TranslateWriteError(fmt.Errorf("create course: %w", err))
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.New("create course: inserted id is not an ObjectID")
	}
	c.ID = oid
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (model.Course, error) {
	oid, err := ParseID(id)
	if err != nil {
		return model.Course{}, err
	}
	return decodeCourse(r.coll.FindOne(ctx, bson.M{"_id": oid}), "find course")
}

// Update applies the non-nil fields of upd and returns the updated course.
func (r *CourseRepository) Update(ctx context.Context, id string, upd model.CourseUpdate) (model.Course, error) {
	oid, err := ParseID(id)
	if err != nil {
		return model.Course{}, err
	}

	set := CourseUpdateSet(upd)
	set["updatedAt"] = time.Now().UTC()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeCourse(res, "update course")
}

// CourseUpdateSet builds the $set document for an edit.
func CourseUpdateSet(upd model.CourseUpdate) bson.M {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.EstimatedPrice != nil {
		set["estimatedPrice"] = *upd.EstimatedPrice
	}
	if upd.Thumbnail != nil {
		set["thumbnail"] = upd.Thumbnail
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Level != nil {
		set["level"] = *upd.Level
	}
	if upd.DemoURL != nil {
		set["demoUrl"] = *upd.DemoURL
	}
	if upd.Benefits != nil {
		set["benefits"] = upd.Benefits
	}
	if upd.Prerequisites != nil {
		set["prerequisites"] = upd.Prerequisites
	}
	if upd.CourseData != nil {
		set["courseData"] = upd.CourseData
	}
	return set
}

func normalizeCourse(c *model.Course) {
	if c.Benefits == nil {
		c.Benefits = []model.Titled{}
	}
	if c.Prerequisites == nil {
		c.Prerequisites = []model.Titled{}
	}
	if c.Reviews == nil {
		c.Reviews = []model.Review{}
	}
	if c.CourseData == nil {
		c.CourseData = []model.CourseSection{}
	}
}

func decodeCourse(res *mongo.SingleResult, op string) (model.Course, error) {
	var c model.Course
	if err := res.Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Course{}, model.ErrCourseNotFound
		}
		return model.Course{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
