package dataset

import (
	"context"
	"errors"

	"github.com/killallgit/minewatch-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a dataset does not exist
var ErrNotFound = errors.New("dataset not found")

// RepositoryImpl implements the Repository interface using GORM
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new dataset repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// Create creates a new dataset record
func (r *RepositoryImpl) Create(ctx context.Context, dataset *models.Dataset) error {
	return r.db.WithContext(ctx).Create(dataset).Error
}

// GetByID retrieves a dataset by ID
func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (*models.Dataset, error) {
	var dataset models.Dataset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dataset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dataset, nil
}

// List retrieves datasets with optional filters
func (r *RepositoryImpl) List(ctx context.Context, filters *ListFilters) ([]models.Dataset, error) {
	var datasets []models.Dataset
	query := r.db.WithContext(ctx).Model(&models.Dataset{})

	if filters != nil {
		if filters.UploadedBy != "" {
			query = query.Where("uploaded_by = ?", filters.UploadedBy)
		}
		if filters.Limit > 0 {
			query = query.Limit(filters.Limit)
		}
		if filters.Offset > 0 {
			query = query.Offset(filters.Offset)
		}
	}

	// Order by creation time (newest first)
	query = query.Order("created_at DESC").Order("id")

	err := query.Find(&datasets).Error
	return datasets, err
}
