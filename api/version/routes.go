package version

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
)

// RegisterRoutes registers version routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/version", Get(deps))
	engine.GET("/", Get(deps))
}
