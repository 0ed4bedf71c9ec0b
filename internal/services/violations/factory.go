package violations

import (
	"fmt"

	"github.com/killallgit/minewatch-api/pkg/config"
	"gorm.io/gorm"
)

// Recorder backend names
const (
	BackendDatabase  = "database"
	BackendPostgrest = "postgrest"
)

// NewRepositoryFromConfig selects the configured violation store
func NewRepositoryFromConfig(cfg config.RecorderConfig, supabase config.SupabaseConfig, db *gorm.DB) (Repository, error) {
	switch cfg.Backend {
	case BackendDatabase, "":
		if db == nil {
			return nil, fmt.Errorf("database recorder requires a database connection")
		}
		return NewRepository(db), nil
	case BackendPostgrest:
		return NewPostgrestRepository(supabase.URL, supabase.APIKey, supabase.Schema, cfg.Table)
	}
	return nil, fmt.Errorf("unknown recorder backend %q", cfg.Backend)
}
