package datasets

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
)

// RegisterRoutes registers dataset routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("", Create(deps))
	router.GET("", List(deps))
	router.GET("/:id", Get(deps))
}
