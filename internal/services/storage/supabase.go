package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStorage implements Storage on a Supabase storage bucket
type SupabaseStorage struct {
	client *storage_go.Client
	bucket string
}

// NewSupabaseStorage connects to <projectURL>/storage/v1 with the service key
func NewSupabaseStorage(projectURL, apiKey, bucket string) (*SupabaseStorage, error) {
	if projectURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase url and api key are required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	endpoint := strings.TrimSuffix(projectURL, "/") + "/storage/v1"
	client := storage_go.NewClient(endpoint, apiKey, map[string]string{"apikey": apiKey})
	return &SupabaseStorage{client: client, bucket: bucket}, nil
}

// Put uploads the object. The client has no context support, so
// cancellation is only honoured before the upload starts.
func (s *SupabaseStorage) Put(ctx context.Context, key string, data io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upsert := false
	_, err := s.client.UploadFile(s.bucket, key, data, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("supabase upload %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// PublicURL returns the public object URL
func (s *SupabaseStorage) PublicURL(key string) string {
	return s.client.GetPublicUrl(s.bucket, key).SignedURL
}

func (s *SupabaseStorage) Name() string { return BackendSupabase }

func (s *SupabaseStorage) Bucket() string { return s.bucket }
