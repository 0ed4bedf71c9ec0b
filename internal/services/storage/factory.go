package storage

import (
	"fmt"

	"github.com/killallgit/minewatch-api/pkg/config"
)

// New builds the configured backend
func New(cfg config.StorageConfig, supabase config.SupabaseConfig) (Storage, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStorage(cfg.LocalDir, cfg.Bucket, cfg.PublicBaseURL)
	case BackendSupabase:
		return NewSupabaseStorage(supabase.URL, supabase.APIKey, cfg.Bucket)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
