package api

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/database"
	"github.com/killallgit/minewatch-api/internal/metrics"
	"github.com/killallgit/minewatch-api/internal/services/analysis"
	"github.com/killallgit/minewatch-api/internal/services/classifier"
	"github.com/killallgit/minewatch-api/internal/services/dataset"
	"github.com/killallgit/minewatch-api/internal/services/frames"
	"github.com/killallgit/minewatch-api/internal/services/storage"
	"github.com/killallgit/minewatch-api/internal/services/videos"
	"github.com/killallgit/minewatch-api/internal/services/violations"
	"github.com/killallgit/minewatch-api/pkg/config"
	"github.com/killallgit/minewatch-api/pkg/ffmpeg"
)

// NewDependencies wires every service from configuration. A missing classifier
// credential or missing ffmpeg binaries degrade the pipeline instead of failing.
func NewDependencies(cfg *config.Config, db *database.DB, logger *zap.Logger) (*types.Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if db == nil || db.DB == nil {
		return nil, errors.New("database is not initialized")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.New(cfg.Storage, cfg.Supabase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	m := metrics.New()

	repo, err := violations.NewRepositoryFromConfig(cfg.Recorder, cfg.Supabase, db.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recorder: %w", err)
	}
	violationService := violations.NewService(repo, violations.NewHub(), m, cfg.Analysis.FPS, logger)
	videoRepo := videos.NewRepository(db.DB)
	datasetService := dataset.NewService(dataset.NewRepository(db.DB), logger)

	analysisDeps := analysis.Dependencies{
		Storage:  store,
		Videos:   videoRepo,
		Recorder: violationService,
		Hints:    datasetService,
		Metrics:  m,
		Logger:   logger.Named("analysis"),
	}

	ff := ffmpeg.New(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegTimeout)
	if err := ff.ValidateBinaries(); err != nil {
		logger.Warn("ffmpeg unavailable, runs without uploaded frames fall back to text-only prompts", zap.Error(err))
	} else {
		analysisDeps.Sampler = frames.NewSampler(ff, frames.Options{
			Width:   cfg.Analysis.FrameWidth,
			Quality: cfg.Analysis.JPEGQuality,
		}, logger)
	}

	cls, err := classifier.NewOpenAI(cfg.Classifier, logger)
	switch {
	case errors.Is(err, classifier.ErrUnavailable):
		logger.Warn("no classifier credential configured, prompt-based detection is disabled")
	case err != nil:
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	default:
		analysisDeps.Classifier = cls
	}

	analyzer, err := analysis.NewService(analysisDeps, analysis.Options{
		FPS:                   cfg.Analysis.FPS,
		Strategy:              cfg.Analysis.Strategy,
		LabelSet:              cfg.Analysis.LabelSet,
		FrameCount:            cfg.Analysis.FrameCount,
		SyntheticMin:          cfg.Analysis.SyntheticMin,
		SyntheticMax:          cfg.Analysis.SyntheticMax,
		SyntheticRangeSeconds: cfg.Analysis.SyntheticRangeSeconds,
		CallInterval:          cfg.Classifier.CallInterval,
		MaxBytes:              cfg.Upload.MaxBytes,
		AllowedMIMETypes:      cfg.Upload.AllowedMIMETypes,
		TempDir:               cfg.Storage.TempDir,
	})
	if err != nil {
		return nil, err
	}

	return &types.Dependencies{
		Config:     cfg,
		DB:         db,
		Storage:    store,
		Analyzer:   analyzer,
		Videos:     videoRepo,
		Violations: violationService,
		Datasets:   datasetService,
		Metrics:    m,
		Logger:     logger,
	}, nil
}
