package dataset

import (
	"context"

	"github.com/killallgit/minewatch-api/internal/models"
)

// Service defines the interface for labeled dataset operations
type Service interface {
	// CreateDataset registers a labeled dataset for an uploader
	CreateDataset(ctx context.Context, request *CreateRequest) (*models.Dataset, error)

	// GetDataset retrieves an existing dataset by ID
	GetDataset(ctx context.Context, id string) (*models.Dataset, error)

	// ListDatasets lists datasets, newest first
	ListDatasets(ctx context.Context, filters *ListFilters) ([]models.Dataset, error)

	// TrainingHint summarizes an uploader's datasets for classifier prompts.
	// It is empty when the uploader has none.
	TrainingHint(ctx context.Context, uploader string) (string, error)
}

// CreateRequest represents a request to register a dataset
type CreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Labels      []string `json:"labels" binding:"required"`
	UploadedBy  string   `json:"uploaded_by" binding:"required"`
}

// ListFilters defines filters for listing datasets
type ListFilters struct {
	UploadedBy string `json:"uploaded_by,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// Repository defines the interface for dataset persistence
type Repository interface {
	// Create creates a new dataset record
	Create(ctx context.Context, dataset *models.Dataset) error

	// GetByID retrieves a dataset by ID
	GetByID(ctx context.Context, id string) (*models.Dataset, error)

	// List retrieves datasets with optional filters
	List(ctx context.Context, filters *ListFilters) ([]models.Dataset, error)
}
