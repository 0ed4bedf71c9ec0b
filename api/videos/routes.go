package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
)

// RegisterRoutes registers video routes. Uploads get their own middleware
// chain since they are far more expensive than reads.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, uploadMiddleware ...gin.HandlerFunc) {
	router.GET("", List(deps))
	router.GET("/:id", Get(deps))
	router.POST("", append(uploadMiddleware, Upload(deps))...)
}
