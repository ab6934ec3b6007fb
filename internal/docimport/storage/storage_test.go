package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-backend/internal/docimport/storage"
)

func TestFileStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	filename, path, err := store.Save("contact card.pdf", strings.NewReader("%PDF content"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, "_contact_card.pdf"))
	assert.Equal(t, filepath.Join(dir, filename), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF content", string(content))
}

func TestFileStore_SanitizesHostileNames(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	tests := []struct {
		name     string
		original string
		suffix   string
	}{
		{"path traversal", "../../etc/passwd", "_passwd"},
		{"shell characters", "a;rm -rf.pdf", "_a_rm_-rf.pdf"},
		{"unicode noise", "résumé.pdf", "_r_sum_.pdf"},
		{"empty after sanitizing", "...", "_upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename, path, err := store.Save(tt.original, strings.NewReader("x"))
			require.NoError(t, err)

			assert.True(t, strings.HasSuffix(filename, tt.suffix), "got %q", filename)
			assert.Equal(t, dir, filepath.Dir(path))
		})
	}
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
