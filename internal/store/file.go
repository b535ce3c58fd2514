package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// FileBackend keeps each collection in <dir>/<name>.json. Writes go to a
// temporary file that is renamed over the target, so a crash never leaves a
// truncated collection behind.
type FileBackend struct {
	dir string
}

// NewFileBackend prepares dir and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("store: data directory must not be empty")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data directory: %w", err)
	}
	return &FileBackend{dir: trimmed}, nil
}

// Dir returns the directory holding the collection files.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(name Collection) string {
	return filepath.Join(b.dir, string(name)+".json")
}

// Read returns the raw document for name.
func (b *FileBackend) Read(ctx context.Context, name Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write atomically replaces the document for name.
func (b *FileBackend) Write(ctx context.Context, name Collection, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return renameio.WriteFile(b.path(name), document, 0o644)
}
