package videos

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/services/videos"
)

// List returns uploaded videos, newest first
// @Summary      List uploaded videos
// @Tags         videos
// @Produce      json
// @Param        uploaded_by query string false "Filter by uploader"
// @Param        limit       query int    false "Page size (default 50)"
// @Param        offset      query int    false "Offset"
// @Success      200 {object} types.VideosResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/videos [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.QueryInt(c, "limit", 50)
		if !ok {
			return
		}
		offset, ok := types.QueryInt(c, "offset", 0)
		if !ok {
			return
		}

		list, total, err := deps.Videos.List(c.Request.Context(), videos.ListFilters{
			UploadedBy: c.Query("uploaded_by"),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			types.SendInternalError(c, "failed to list videos")
			return
		}

		types.SendSuccess(c, types.VideosResponse{
			Videos: list,
			Count:  len(list),
			Total:  total,
			Offset: offset,
		})
	}
}

// Get returns one video with its analysis runs
// @Summary      Get a video
// @Tags         videos
// @Produce      json
// @Param        id path int true "Video ID"
// @Success      200 {object} types.VideoResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/videos/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		video, err := deps.Videos.GetByID(c.Request.Context(), id)
		if errors.Is(err, videos.ErrNotFound) {
			types.SendNotFound(c, "video not found")
			return
		}
		if err != nil {
			types.SendInternalError(c, "failed to load video")
			return
		}

		runs, err := deps.Videos.RunsForVideo(c.Request.Context(), id)
		if err != nil {
			types.SendInternalError(c, "failed to load analysis runs")
			return
		}

		types.SendSuccess(c, types.VideoResponse{Video: video, Runs: runs})
	}
}
