package images

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// LocalPrefix is the URL path under which LocalStore images are served.
const LocalPrefix = "/images/"

// LocalStore writes images to a directory served by the HTTP server.
type LocalStore struct {
	dir string
}

// NewLocalStore prepares dir for image uploads.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory holding the images.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes data to <dir>/<name>, replacing any previous file atomically.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validName(name); err != nil {
		return "", err
	}
	if err := renameio.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}
	return name, nil
}

// URL returns the site-relative path of the image.
func (s *LocalStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return LocalPrefix + url.PathEscape(ref)
}
