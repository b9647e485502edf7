package repository

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"go-course-platform/pkg/apierror"
)

var duplicateIndexPattern = regexp.MustCompile(`index: (\w+?)_-?\d`)

// ParseID converts a hex document id. Malformed ids are reported as a
// missing resource.
func ParseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, apierror.NotFound("Resource not found. Invalid: _id", id)
	}
	return oid, nil
}

// TranslateWriteError turns a unique index violation into a conflict naming
// the offending field. Other errors are returned unchanged.
func TranslateWriteError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return apierror.Conflict(fmt.Sprintf("Duplicate %s entered", DuplicateField(err)))
}

// DuplicateField extracts the indexed field from a duplicate key error.
func DuplicateField(err error) string {
	if match := duplicateIndexPattern.FindStringSubmatch(err.Error()); len(match) == 2 {
		return match[1]
	}
	return "value"
}
