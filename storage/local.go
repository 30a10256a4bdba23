// Package storage stores uploaded post images on the local filesystem and
// hands back the public paths under which they are served.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix under which stored files are served.
const PublicPrefix = "/uploads/"

// ErrNotImage is returned when an uploaded file's sniffed content type is not
// an image. The decision is based on content, not on the client-supplied
// filename or Content-Type header.
var ErrNotImage = errors.New("uploaded file is not an image")

// Local writes uploaded files into a single directory on disk.
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed and returns a store on it.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (l *Local) Dir() string {
	return l.dir
}

// Save stores the uploaded file content under a fresh random name that keeps
// the original extension, and returns the public path for the stored file.
// Only image content is accepted.
func (l *Local) Save(src io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotImage
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = mtype.Extension()
	}

	name := "file-" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return PublicPrefix + name, nil
}

// Remove deletes the stored file behind a public path. Paths outside the
// store's namespace are rejected.
func (l *Local) Remove(publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, PublicPrefix)
	if !ok || name == "" || name != path.Base(name) {
		return fmt.Errorf("not a stored upload path: %s", publicPath)
	}
	return os.Remove(filepath.Join(l.dir, name))
}
