package violations

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
)

// RegisterRoutes registers violation routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", List(deps))
	router.GET("/export", Export(deps))
	router.GET("/stream", Stream(deps))
	router.GET("/:id", Get(deps))
	router.GET("/:id/seek", Seek(deps))
}
