package media

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathValidatorResolve(t *testing.T) {
	t.Parallel()

	validator, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)

	t.Run("public id resolves inside root", func(t *testing.T) {
		resolved, resolveErr := validator.Resolve("avatars/abc.jpg")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "avatars", "abc.jpg"), resolved)
	})

	t.Run("backslashes are normalized", func(t *testing.T) {
		resolved, resolveErr := validator.Resolve(`courses\thumb.png`)
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "courses", "thumb.png"), resolved)
	})

	t.Run("root itself is rejected", func(t *testing.T) {
		_, resolveErr := validator.Resolve("/")
		require.Error(t, resolveErr)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, resolveErr := validator.Resolve("avatars/../../etc/passwd")
		require.Error(t, resolveErr)
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, resolveErr := validator.Resolve("avatars\nabc.jpg")
		require.Error(t, resolveErr)
	})

	t.Run("empty root is rejected", func(t *testing.T) {
		_, rootErr := NewPathValidator(" ")
		require.Error(t, rootErr)
	})
}
