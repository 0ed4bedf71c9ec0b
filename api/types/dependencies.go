package types

import (
	"context"

	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/internal/database"
	"github.com/killallgit/minewatch-api/internal/metrics"
	"github.com/killallgit/minewatch-api/internal/services/analysis"
	"github.com/killallgit/minewatch-api/internal/services/dataset"
	"github.com/killallgit/minewatch-api/internal/services/storage"
	"github.com/killallgit/minewatch-api/internal/services/videos"
	"github.com/killallgit/minewatch-api/internal/services/violations"
	"github.com/killallgit/minewatch-api/pkg/config"
)

// Analyzer runs the violation pipeline for one upload
type Analyzer interface {
	Analyze(ctx context.Context, upload analysis.Upload) (*analysis.Outcome, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	Config     *config.Config
	DB         *database.DB
	Storage    storage.Storage
	Analyzer   Analyzer
	Videos     videos.Repository
	Violations violations.Service
	Datasets   dataset.Service
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Build      BuildInfo
}

// Log returns the configured logger, or a no-op logger
func (d *Dependencies) Log() *zap.Logger {
	if d == nil || d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}
