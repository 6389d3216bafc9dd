package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPhotoStore(dir, "https://janmitra.example")
	require.NoError(t, err)

	url, err := s.Save(42, []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://janmitra.example/uploads/42/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	// The file actually landed under the owner's directory.
	entries, err := os.ReadDir(filepath.Join(dir, "42"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, "42", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestSaveNamesNeverCollide(t *testing.T) {
	s, err := NewPhotoStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	a, err := s.Save(1, []byte("a"), "image/png")
	require.NoError(t, err)
	b, err := s.Save(1, []byte("b"), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExtFor(t *testing.T) {
	assert.Equal(t, ".jpg", extFor("image/jpeg"))
	assert.Equal(t, ".png", extFor("image/png"))
	assert.Equal(t, ".webp", extFor("image/webp"))
	assert.Equal(t, ".bin", extFor("application/octet-stream"))
}
