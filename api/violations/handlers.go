package violations

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/services/violations"
)

// List returns recorded violations, newest first
// @Summary      List violations
// @Tags         violations
// @Produce      json
// @Param        type      query string false "Violation type"
// @Param        severity  query string false "critical or warning"
// @Param        method    query string false "Detection method"
// @Param        video     query int    false "Video ID"
// @Param        since     query string false "RFC3339 lower bound on detected_at"
// @Param        until     query string false "RFC3339 upper bound on detected_at"
// @Param        limit     query int    false "Page size (default 50, max 500)"
// @Param        offset    query int    false "Offset"
// @Success      200 {object} types.ViolationsResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/violations [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := parseFilter(c)
		if !ok {
			return
		}

		list, total, err := deps.Violations.List(c.Request.Context(), filter)
		if err != nil {
			deps.Log().Error("failed to list violations", zap.Error(err))
			types.SendInternalError(c, "failed to list violations")
			return
		}

		types.SendSuccess(c, types.ViolationsResponse{
			Violations: list,
			Count:      len(list),
			Total:      total,
			Offset:     filter.Offset,
		})
	}
}

// Get returns one violation
// @Summary      Get a violation
// @Tags         violations
// @Produce      json
// @Param        id path int true "Violation ID"
// @Success      200 {object} models.Violation
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/violations/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		v, err := deps.Violations.Get(c.Request.Context(), id)
		if errors.Is(err, violations.ErrNotFound) {
			types.SendNotFound(c, "violation not found")
			return
		}
		if err != nil {
			types.SendInternalError(c, "failed to load violation")
			return
		}
		types.SendSuccess(c, v)
	}
}

// Seek returns the player position of a violation
// @Summary      Time-jump target for a violation
// @Description  seconds is frame_number divided by the configured frame rate
// @Tags         violations
// @Produce      json
// @Param        id path int true "Violation ID"
// @Success      200 {object} types.SeekResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/violations/{id}/seek [get]
func Seek(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		target, err := deps.Violations.Seek(c.Request.Context(), id)
		if errors.Is(err, violations.ErrNotFound) {
			types.SendNotFound(c, "violation not found")
			return
		}
		if err != nil {
			types.SendInternalError(c, "failed to load violation")
			return
		}
		types.SendSuccess(c, target)
	}
}

// Export streams matching violations as CSV
// @Summary      Export violations as CSV
// @Tags         violations
// @Produce      text/csv
// @Param        type      query string false "Violation type"
// @Param        severity  query string false "critical or warning"
// @Param        method    query string false "Detection method"
// @Param        video     query int    false "Video ID"
// @Param        since     query string false "RFC3339 lower bound"
// @Param        until     query string false "RFC3339 upper bound"
// @Success      200 {string} string "CSV document"
// @Router       /api/v1/violations/export [get]
func Export(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := parseFilter(c)
		if !ok {
			return
		}

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=violations_%d.csv", time.Now().Unix()))

		n, err := deps.Violations.ExportCSV(c.Request.Context(), filter, c.Writer)
		if err != nil {
			// Headers are already sent; the truncated body is all we can signal.
			deps.Log().Error("violation export failed", zap.Int("rows", n), zap.Error(err))
			return
		}
		deps.Log().Debug("violations exported", zap.Int("rows", n))
	}
}

// Stream pushes each newly recorded violation as a server-sent event
// @Summary      Live feed of recorded violations
// @Tags         violations
// @Produce      text/event-stream
// @Success      200 {object} models.Violation "violation events"
// @Router       /api/v1/violations/stream [get]
func Stream(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, events := deps.Violations.Subscribe()
		defer deps.Violations.Unsubscribe(id)

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		keepAlive := time.NewTicker(15 * time.Second)
		defer keepAlive.Stop()

		c.SSEvent("ready", gin.H{"subscriber": id})
		c.Writer.Flush()

		c.Stream(func(w io.Writer) bool {
			select {
			case v, ok := <-events:
				if !ok {
					return false
				}
				c.SSEvent("violation", v)
				return true
			case <-keepAlive.C:
				c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
