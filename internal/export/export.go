// Package export stores generated incident summaries as text files, either
// in a local directory or in an S3-compatible bucket.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists a summary and returns where it can be retrieved.
type Store interface {
	Put(ctx context.Context, sessionID, name string, body []byte) (location string, err error)
}

// ErrInvalidName is returned for names that would escape the store root.
var ErrInvalidName = errors.New("export: invalid name")

// FileStore writes summaries under <dir>/<session>/<name>.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Put writes body atomically and returns the absolute file path.
func (s *FileStore) Put(ctx context.Context, sessionID, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkName(sessionID); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	dest := filepath.Join(dir, name)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("renaming export: %w", err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}

func checkName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
