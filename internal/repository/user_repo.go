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

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(database.UsersCollection)}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return model.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = model.RoleStudent
	}
	if u.Courses == nil {
		u.Courses = []model.CourseRef{}
	}

	result, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return TranslateWriteError(fmt.Errorf("create user: %w", err))
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.New("create user: inserted id is not an ObjectID")
	}
	u.ID = oid
	return nil
}

// Update saves the mutable profile fields of u.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"isVerified": u.Verified,
		"updatedAt":  u.UpdatedAt,
	}
	if u.Password != "" {
		set["password"] = u.Password
	}
	if u.Avatar != nil {
		set["avatar"] = u.Avatar
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": set})
	if err != nil {
		return TranslateWriteError(fmt.Errorf("update user: %w", err))
	}
	if result.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role model.Role) (model.User, error) {
	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeUser(res, "update user role")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	return decodeUser(r.coll.FindOne(ctx, filter), "find user")
}

func decodeUser(res *mongo.SingleResult, op string) (model.User, error) {
	var u model.User
	if err := res.Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
