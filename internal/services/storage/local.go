package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage using the local filesystem. Objects live
// under <baseDir>/<bucket>/<key> and are served by the API under publicBaseURL.
type LocalStorage struct {
	basePath      string
	bucket        string
	publicBaseURL string
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath, bucket, publicBaseURL string) (*LocalStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(absPath, bucket), 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &LocalStorage{
		basePath:      absPath,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Put saves an object to the filesystem
func (s *LocalStorage) Put(ctx context.Context, key string, data io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filePath, err := s.Path(key)
	if err != nil {
		return err
	}

	// O_EXCL: stored videos are immutable
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(filePath) // Clean up on failure
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Path returns the filesystem path for key
func (s *LocalStorage) Path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.basePath, s.bucket, key), nil
}

// PublicURL returns the served URL for key
func (s *LocalStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + url.PathEscape(s.bucket) + "/" + url.PathEscape(key)
}

// Root returns the directory served at the public base URL
func (s *LocalStorage) Root() string {
	return s.basePath
}

func (s *LocalStorage) Name() string { return BackendLocal }

func (s *LocalStorage) Bucket() string { return s.bucket }
