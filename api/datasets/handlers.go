package datasets

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/services/dataset"
)

// Create registers a labeled dataset
// @Summary      Register a labeled dataset
// @Description  Datasets registered by an uploader are summarized into the classifier prompt for that uploader's videos.
// @Tags         datasets
// @Accept       json
// @Produce      json
// @Param        dataset body dataset.CreateRequest true "Dataset"
// @Success      201 {object} models.Dataset
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/datasets [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dataset.CreateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		created, err := deps.Datasets.CreateDataset(c.Request.Context(), &req)
		if err != nil {
			types.SendAppError(c, err)
			return
		}
		types.SendCreated(c, created)
	}
}

// List returns datasets, optionally for one uploader
// @Summary      List labeled datasets
// @Tags         datasets
// @Produce      json
// @Param        uploaded_by query string false "Filter by uploader"
// @Param        limit       query int    false "Page size"
// @Param        offset      query int    false "Offset"
// @Success      200 {object} types.DatasetsResponse
// @Router       /api/v1/datasets [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.QueryInt(c, "limit", 0)
		if !ok {
			return
		}
		offset, ok := types.QueryInt(c, "offset", 0)
		if !ok {
			return
		}

		list, err := deps.Datasets.ListDatasets(c.Request.Context(), &dataset.ListFilters{
			UploadedBy: c.Query("uploaded_by"),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			types.SendInternalError(c, "failed to list datasets")
			return
		}
		types.SendSuccess(c, types.DatasetsResponse{Datasets: list, Count: len(list)})
	}
}

// Get returns one dataset
// @Summary      Get a labeled dataset
// @Tags         datasets
// @Produce      json
// @Param        id path string true "Dataset ID"
// @Success      200 {object} models.Dataset
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/datasets/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := deps.Datasets.GetDataset(c.Request.Context(), c.Param("id"))
		if errors.Is(err, dataset.ErrNotFound) {
			types.SendNotFound(c, "dataset not found")
			return
		}
		if err != nil {
			types.SendInternalError(c, "failed to load dataset")
			return
		}
		types.SendSuccess(c, d)
	}
}
