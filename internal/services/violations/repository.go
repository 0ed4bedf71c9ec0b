package violations

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/minewatch-api/internal/models"
	"gorm.io/gorm"
)

// RepositoryImpl stores violations through gorm
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new gorm-backed repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, v *models.Violation) error {
	if v.ID != 0 {
		return fmt.Errorf("violation already recorded with id %d", v.ID)
	}
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter) ([]models.Violation, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Violation{})

	if filter.Type != "" {
		query = query.Where("violation_type = ?", filter.Type)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Method != "" {
		query = query.Where("detection_method = ?", filter.Method)
	}
	if filter.VideoID != 0 {
		query = query.Where("video_id = ?", filter.VideoID)
	}
	if filter.Since != nil {
		query = query.Where("detected_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("detected_at <= ?", *filter.Until)
	}

	// total counts the whole filtered set, not what remains past the cursor
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if c := filter.After; c != nil {
		query = query.Where("(detected_at < ? OR (detected_at = ? AND id < ?))", c.DetectedAt, c.DetectedAt, c.ID)
	}

	var out []models.Violation
	err := query.
		Order("detected_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Violation, error) {
	var v models.Violation
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
