package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Failure      503 {object} types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := getDatabaseStatus(deps)
		response := types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  db,
		}
		if deps != nil && deps.Storage != nil {
			response.Storage = deps.Storage.Name()
		}

		status := http.StatusOK
		if db["status"] == "unhealthy" {
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	return gin.H{"status": "healthy"}
}
