// Package videos stores the catalog of uploaded videos.
package videos

import (
	"context"
	"errors"

	"github.com/killallgit/minewatch-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a video does not exist
var ErrNotFound = errors.New("video not found")

// ListFilters defines filters for listing videos
type ListFilters struct {
	UploadedBy string
	Limit      int
	Offset     int
}

// Repository defines video persistence
type Repository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	List(ctx context.Context, filters ListFilters) ([]models.Video, int64, error)
	SaveRun(ctx context.Context, run *models.AnalysisRun) error
	RunsForVideo(ctx context.Context, videoID uint) ([]models.AnalysisRun, error)
}

// RepositoryImpl implements Repository using GORM
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new video repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *RepositoryImpl) List(ctx context.Context, filters ListFilters) ([]models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{})
	if filters.UploadedBy != "" {
		query = query.Where("uploaded_by = ?", filters.UploadedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var out []models.Video
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(filters.Offset).Find(&out).Error
	return out, total, err
}

// SaveRun inserts or updates an analysis run record
func (r *RepositoryImpl) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *RepositoryImpl) RunsForVideo(ctx context.Context, videoID uint) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Order("started_at DESC").Find(&runs).Error
	return runs, err
}
