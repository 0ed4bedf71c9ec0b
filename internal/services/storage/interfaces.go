package storage

import (
	"context"
	"io"
)

// Backend names
const (
	BackendLocal    = "local"
	BackendSupabase = "supabase"
)

// Storage defines object storage for uploaded videos
type Storage interface {
	// Put writes the object under key in the configured bucket
	Put(ctx context.Context, key string, data io.Reader, contentType string) error

	// PublicURL returns the URL the dashboard plays the object from
	PublicURL(key string) string

	// Name returns the backend name
	Name() string

	// Bucket returns the bucket objects are written to
	Bucket() string
}
