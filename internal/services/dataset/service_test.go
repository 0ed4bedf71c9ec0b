package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/minewatch-api/internal/database"
	"github.com/killallgit/minewatch-api/internal/models"
	apperrors "github.com/killallgit/minewatch-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*models.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dataset), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filters *ListFilters) ([]models.Dataset, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]models.Dataset), args.Error(1)
}

func TestServiceImpl_CreateDataset(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes labels", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Dataset")).
			Run(func(args mock.Arguments) {
				ds := args.Get(1).(*models.Dataset)
				assert.Equal(t, []string{"No Helmet", "No Gloves"}, ds.Labels)
			}).
			Return(nil)

		ds, err := service.CreateDataset(ctx, &CreateRequest{
			Name:       " helmets ",
			Labels:     []string{"No Helmet", " No Helmet", "", "No Gloves"},
			UploadedBy: "inspector-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "helmets", ds.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("validation errors", func(t *testing.T) {
		service := NewService(new(MockRepository), nil)

		_, err := service.CreateDataset(ctx, &CreateRequest{Labels: []string{"x"}, UploadedBy: "u"})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingField))

		_, err = service.CreateDataset(ctx, &CreateRequest{Name: "n", Labels: []string{"x"}})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingField))

		_, err = service.CreateDataset(ctx, &CreateRequest{Name: "n", Labels: []string{" "}, UploadedBy: "u"})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("locked"))

		_, err := service.CreateDataset(ctx, &CreateRequest{Name: "n", Labels: []string{"x"}, UploadedBy: "u"})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))
	})
}

func TestServiceImpl_TrainingHint(t *testing.T) {
	ctx := context.Background()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	service := NewService(NewRepository(db.DB), nil)

	hint, err := service.TrainingHint(ctx, "inspector-1")
	require.NoError(t, err)
	assert.Empty(t, hint)

	_, err = service.CreateDataset(ctx, &CreateRequest{Name: "helmets", Labels: []string{"No Helmet"}, UploadedBy: "inspector-1"})
	require.NoError(t, err)
	_, err = service.CreateDataset(ctx, &CreateRequest{Name: "gloves", Labels: []string{"No Gloves", "No Helmet"}, UploadedBy: "inspector-1"})
	require.NoError(t, err)
	_, err = service.CreateDataset(ctx, &CreateRequest{Name: "other", Labels: []string{"Spill"}, UploadedBy: "inspector-2"})
	require.NoError(t, err)

	hint, err = service.TrainingHint(ctx, "inspector-1")
	require.NoError(t, err)
	assert.Contains(t, hint, "helmets")
	assert.Contains(t, hint, "gloves")
	assert.Contains(t, hint, "No Gloves")
	assert.NotContains(t, hint, "Spill")

	all, err := service.ListDatasets(ctx, &ListFilters{UploadedBy: "inspector-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := service.GetDataset(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Labels, got.Labels)

	_, err = service.GetDataset(ctx, "ds-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
