// Package images stores uploaded dish photos and resolves their public URLs.
package images

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedImage is returned for uploads that are not jpg, jpeg or png.
var ErrUnsupportedImage = errors.New("image must be a jpg, jpeg or png file")

var allowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// Store persists image payloads under an object name.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	URL(ref string) string
}

// ObjectName derives the stored file name for a dish photo: the lower-cased dish
// name with spaces replaced by underscores, plus the upload's extension.
func ObjectName(dishName, uploadName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(uploadName)), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedImage
	}

	base := strings.ToLower(strings.TrimSpace(dishName))
	if base == "" {
		return "", fmt.Errorf("image name requires a dish name")
	}
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)
	return base + "." + ext, nil
}

// ContentType returns the MIME type for an object name produced by ObjectName.
func ContentType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if contentType, ok := allowedExtensions[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid image name %q", name)
	}
	return nil
}
