package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists generated slips and uploaded photos. Keys are
// relative paths like "slips/borrow_<uuid>.pdf" or "borrowers/<uuid>.png".
type FileStore interface {
	Save(key string, reader io.Reader) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
	Exists(key string) (bool, error)
	// URL returns the public path a client can fetch the key from.
	URL(key string) string
	// Path returns the filesystem location for a key, for handing files
	// to libraries that write directly to disk.
	Path(key string) string
}

// LocalFileStore keeps everything under a single base directory on the
// server's disk.
type LocalFileStore struct {
	baseDir string
	baseURL string
}

func NewLocalFileStore(baseDir, baseURL string) (*LocalFileStore, error) {
	for _, sub := range []string{"slips", "items", "borrowers"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &LocalFileStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStore) Save(key string, reader io.Reader) error {
	fullPath := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalFileStore) Open(key string) (io.ReadCloser, error) {
	file, err := os.Open(s.Path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalFileStore) Delete(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalFileStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *LocalFileStore) URL(key string) string {
	return s.baseURL + "/files/" + key
}

func (s *LocalFileStore) Path(key string) string {
	// Keys are server-generated, but reject traversal anyway.
	clean := filepath.Clean("/" + key)
	return filepath.Join(s.baseDir, clean)
}
