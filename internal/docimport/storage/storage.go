package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// unsafeChars matches every character we refuse to keep in a stored
// filename.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileStore writes uploaded documents to a local uploads directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the uploads directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the upload to disk under a timestamped, sanitized name
// and returns the stored filename and its absolute path.
func (s *FileStore) Save(originalName string, r io.Reader) (filename, path string, err error) {
	filename = fmt.Sprintf("%d_%s", time.Now().Unix(), sanitize(originalName))
	path = filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("write upload file: %w", err)
	}

	return filename, path, nil
}

// sanitize strips path components and collapses unsafe characters so
// the stored name is safe to join onto the uploads directory.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}
