package media

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"go-course-platform/pkg/apierror"
)

// PathValidator maps public ids onto paths below a root directory and
// refuses anything that would escape it.
type PathValidator struct {
	rootAbs string
}

func NewPathValidator(root string) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}

	return &PathValidator{rootAbs: rootAbs}, nil
}

func (v *PathValidator) RootAbs() string {
	return v.rootAbs
}

func (v *PathValidator) Resolve(publicID string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(publicID), `\`, "/")
	if normalized == "" || normalized == "/" {
		return "", apierror.New("INVALID_PATH", "public id cannot be empty", publicID, http.StatusBadRequest)
	}

	if hasControlCharacters(normalized) {
		return "", apierror.New("INVALID_PATH", "public id contains invalid characters", publicID, http.StatusBadRequest)
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apierror.New("PATH_TRAVERSAL", "path traversal attempt detected", publicID, http.StatusForbidden)
		}
	}

	cleanRel := filepath.Clean(strings.TrimPrefix(normalized, "/"))
	if cleanRel == "." {
		return "", apierror.New("INVALID_PATH", "public id cannot be empty", publicID, http.StatusBadRequest)
	}

	resolved := filepath.Join(v.rootAbs, cleanRel)
	rel, err := filepath.Rel(v.rootAbs, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apierror.New("PATH_TRAVERSAL", "path escapes media root", publicID, http.StatusForbidden)
	}

	return resolved, nil
}

func hasControlCharacters(value string) bool {
	for _, r := range value {
		if r == 0 || unicode.IsControl(r) {
			return true
		}
	}
	return false
}
