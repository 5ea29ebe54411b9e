// Package storage persists uploaded files on local disk. Stored names are
// randomized so originals never collide or leak user-supplied paths.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves and removes uploaded files
type Store interface {
	// Save writes the stream to disk and returns the stored file name
	Save(original string, r io.Reader) (string, error)

	// Open returns a reader over a stored file
	Open(storedName string) (io.ReadCloser, error)

	// Remove deletes a stored file
	Remove(storedName string) error
}

// LocalStore keeps uploads under a single directory
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the stream under a randomized name, keeping the original
// extension so downloads keep their type
func (s *LocalStore) Save(original string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	storedName := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return storedName, nil
}

// Open returns a reader over a stored file
func (s *LocalStore) Open(storedName string) (io.ReadCloser, error) {
	// Reject names that escape the upload directory
	if storedName != filepath.Base(storedName) {
		return nil, fmt.Errorf("invalid stored file name")
	}
	return os.Open(filepath.Join(s.dir, storedName))
}

// Remove deletes a stored file
func (s *LocalStore) Remove(storedName string) error {
	if storedName != filepath.Base(storedName) {
		return fmt.Errorf("invalid stored file name")
	}
	return os.Remove(filepath.Join(s.dir, storedName))
}
