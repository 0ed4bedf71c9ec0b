package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/minewatch-api/api/datasets"
	"github.com/killallgit/minewatch-api/api/health"
	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/api/version"
	"github.com/killallgit/minewatch-api/api/videos"
	"github.com/killallgit/minewatch-api/api/violations"
	_ "github.com/killallgit/minewatch-api/docs/swagger"
	"github.com/killallgit/minewatch-api/internal/services/storage"
)

// Non-upload request bodies are small JSON documents
const maxJSONBody = 1 << 20

// multipartOverhead leaves room for form fields and frame images around the video
const multipartOverhead = 64 << 20

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *RateLimiters) error {
	if deps == nil || deps.Config == nil {
		return errors.New("dependencies are not configured")
	}
	cfg := deps.Config

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.Monitoring.Enabled && deps.Metrics != nil {
		path := cfg.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	// Locally stored videos are served for the time-jump player
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		engine.Static(mediaMount(cfg.Storage.PublicBaseURL), local.Root())
	}

	engine.NoRoute(NotFoundHandler())

	readLimit := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	uploadLimit := readLimit
	if cfg.RateLimiting.Enabled && limiters != nil {
		readLimit = limiters.Middleware("read", cfg.RateLimiting.ReadRPS, cfg.RateLimiting.ReadBurst)
		uploadLimit = limiters.Middleware("upload", cfg.RateLimiting.UploadRPS, cfg.RateLimiting.UploadBurst)
	}

	v1 := engine.Group("/api/v1")

	videoGroup := v1.Group("/videos")
	videoGroup.Use(readLimit)
	videos.RegisterRoutes(videoGroup, deps, uploadLimit, RequestSizeLimit(cfg.Upload.MaxBytes+multipartOverhead))

	violationGroup := v1.Group("/violations")
	violationGroup.Use(readLimit)
	violations.RegisterRoutes(violationGroup, deps)

	datasetGroup := v1.Group("/datasets")
	datasetGroup.Use(readLimit, RequestSizeLimit(maxJSONBody))
	datasets.RegisterRoutes(datasetGroup, deps)

	return nil
}

// mediaMount is the path component of the public base URL, "/media" by default
func mediaMount(publicBaseURL string) string {
	u, err := url.Parse(publicBaseURL)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return "/media"
	}
	return "/" + strings.Trim(u.Path, "/")
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
