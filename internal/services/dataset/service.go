package dataset

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/killallgit/minewatch-api/internal/models"
	apperrors "github.com/killallgit/minewatch-api/pkg/errors"
	"go.uber.org/zap"
)

// maxHintDatasets caps how many dataset names are quoted in a prompt
const maxHintDatasets = 5

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	logger     *zap.Logger
}

// NewService creates a new dataset service
func NewService(repository Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{
		repository: repository,
		logger:     logger.Named("datasets"),
	}
}

// CreateDataset validates and stores a dataset. Labels are trimmed and deduplicated.
func (s *ServiceImpl) CreateDataset(ctx context.Context, request *CreateRequest) (*models.Dataset, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, apperrors.MissingFieldError("name")
	}
	uploader := strings.TrimSpace(request.UploadedBy)
	if uploader == "" {
		return nil, apperrors.MissingFieldError("uploaded_by")
	}

	var labels []string
	for _, label := range request.Labels {
		label = strings.TrimSpace(label)
		if label != "" && !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return nil, apperrors.ValidationError("labels", "at least one label is required")
	}

	dataset := &models.Dataset{
		Name:        name,
		Description: request.Description,
		Labels:      labels,
		UploadedBy:  uploader,
	}
	if err := s.repository.Create(ctx, dataset); err != nil {
		return nil, apperrors.DatabaseError("create dataset", err)
	}

	s.logger.Info("dataset registered",
		zap.String("id", dataset.ID),
		zap.String("uploaded_by", uploader),
		zap.Int("labels", len(labels)))
	return dataset, nil
}

// GetDataset retrieves an existing dataset by ID
func (s *ServiceImpl) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	return s.repository.GetByID(ctx, id)
}

// ListDatasets lists datasets, newest first
func (s *ServiceImpl) ListDatasets(ctx context.Context, filters *ListFilters) ([]models.Dataset, error) {
	return s.repository.List(ctx, filters)
}

// TrainingHint names the uploader's most recent datasets and the union of their labels
func (s *ServiceImpl) TrainingHint(ctx context.Context, uploader string) (string, error) {
	if uploader == "" {
		return "", nil
	}

	datasets, err := s.repository.List(ctx, &ListFilters{UploadedBy: uploader})
	if err != nil {
		return "", fmt.Errorf("listing datasets: %w", err)
	}
	if len(datasets) == 0 {
		return "", nil
	}

	var names, labels []string
	for i, d := range datasets {
		if i < maxHintDatasets {
			names = append(names, d.Name)
		}
		for _, label := range d.Labels {
			if !slices.Contains(labels, label) {
				labels = append(labels, label)
			}
		}
	}

	return fmt.Sprintf("the uploader has labeled datasets %s covering: %s.",
		strings.Join(names, ", "), strings.Join(labels, ", ")), nil
}
