// Package analysis runs the per-upload violation pipeline: validation, storage,
// filename hints, geometric rules, prompt classification and recording.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/internal/metrics"
	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/classifier"
	"github.com/killallgit/minewatch-api/internal/services/filename"
	"github.com/killallgit/minewatch-api/internal/services/frames"
	"github.com/killallgit/minewatch-api/internal/services/geometry"
	"github.com/killallgit/minewatch-api/internal/services/storage"
	"github.com/killallgit/minewatch-api/internal/services/taxonomy"
	"github.com/killallgit/minewatch-api/internal/services/videos"
	"github.com/killallgit/minewatch-api/internal/services/violations"
	apperrors "github.com/killallgit/minewatch-api/pkg/errors"
)

// Filename-derived confidences are drawn from this range
const (
	filenameConfidenceMin = 0.92
	filenameConfidenceMax = 0.99
)

// Options configure a Service
type Options struct {
	FPS                   int
	Strategy              string
	LabelSet              string
	FrameCount            int
	SyntheticMin          int
	SyntheticMax          int
	SyntheticRangeSeconds float64
	CallInterval          time.Duration
	MaxBytes              int64
	AllowedMIMETypes      []string
	TempDir               string
}

// Dependencies are the collaborators of a run. Classifier, Sampler, Hints and
// Metrics may be nil.
type Dependencies struct {
	Storage    storage.Storage
	Videos     videos.Repository
	Recorder   violations.Recorder
	Sampler    FrameSampler
	Classifier classifier.FrameClassifier
	Hints      HintSource
	Parser     *filename.Parser
	Geometry   *geometry.Evaluator
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Random     Random
	Clock      func() time.Time
}

// Service executes analysis runs
type Service struct {
	deps     Dependencies
	opts     Options
	labelSet taxonomy.LabelSet
}

// NewService validates options and fills in defaults
func NewService(deps Dependencies, opts Options) (*Service, error) {
	if deps.Storage == nil {
		return nil, errors.New("analysis: storage is required")
	}
	if deps.Videos == nil {
		return nil, errors.New("analysis: video repository is required")
	}
	if deps.Recorder == nil {
		return nil, errors.New("analysis: recorder is required")
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("analysis: fps must be positive, got %d", opts.FPS)
	}
	switch opts.Strategy {
	case "":
		opts.Strategy = StrategyHybrid
	case StrategyPrompt, StrategyGeometric, StrategyHybrid:
	default:
		return nil, fmt.Errorf("analysis: unknown strategy %q", opts.Strategy)
	}
	labelSet, err := taxonomy.Get(opts.LabelSet)
	if err != nil {
		return nil, err
	}
	if opts.SyntheticMin <= 0 {
		opts.SyntheticMin = 1
	}
	if opts.SyntheticMax < opts.SyntheticMin {
		opts.SyntheticMax = opts.SyntheticMin
	}
	if opts.SyntheticRangeSeconds <= 0 {
		opts.SyntheticRangeSeconds = 60
	}
	opts.FrameCount = frames.NormalizeCount(opts.FrameCount)

	if deps.Parser == nil {
		deps.Parser = filename.NewParser()
	}
	if deps.Geometry == nil {
		deps.Geometry = geometry.NewEvaluator(geometry.DefaultRules())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Random == nil {
		deps.Random = defaultRandom{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{deps: deps, opts: opts, labelSet: labelSet}, nil
}

// Strategy returns the configured strategy
func (s *Service) Strategy() string { return s.opts.Strategy }

// Analyze runs the full pipeline for one upload. Validation, storage and
// catalog failures are fatal and returned as AppErrors; classifier and
// recorder failures only reduce the number of recorded violations.
//
// The run ignores cancellation of ctx once the video has been accepted.
func (s *Service) Analyze(ctx context.Context, upload Upload) (*Outcome, error) {
	logger := s.deps.Logger.With(zap.String("filename", upload.Filename))

	sanitized, err := s.validate(upload)
	if err != nil {
		s.deps.Metrics.RunFinished(models.RunStateFailed)
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	start := s.deps.Clock()

	spooled, size, err := s.spool(upload)
	if err != nil {
		s.deps.Metrics.RunFinished(models.RunStateFailed)
		return nil, err
	}
	defer func() {
		_ = spooled.Close()
		_ = os.Remove(spooled.Name())
	}()

	video, err := s.store(ctx, upload, sanitized, size, spooled, start)
	if err != nil {
		s.deps.Metrics.RunFinished(models.RunStateFailed)
		return nil, err
	}
	s.deps.Metrics.UploadAccepted(size)

	r := &run{
		Service: s,
		ctx:     ctx,
		logger:  logger.With(zap.Uint("video_id", video.ID)),
		machine: newMachine(),
		upload:  upload,
		video:   video,
		start:   start,
		spool:   spooled.Name(),
		frames:  make(map[int]bool),
		pairs:   make(map[pairKey]bool),
		record: &models.AnalysisRun{
			UUID:      uuid.New().String(),
			VideoID:   video.ID,
			Strategy:  s.opts.Strategy,
			State:     models.RunStateInit,
			StartedAt: start,
		},
	}
	return r.execute()
}

func (s *Service) validate(upload Upload) (string, error) {
	if upload.Data == nil || upload.Size == 0 {
		return "", apperrors.MissingFieldError("video")
	}
	if s.opts.MaxBytes > 0 && upload.Size > s.opts.MaxBytes {
		return "", apperrors.PayloadTooLarge(upload.Size, s.opts.MaxBytes)
	}
	if len(s.opts.AllowedMIMETypes) > 0 && !slices.Contains(s.opts.AllowedMIMETypes, baseMIME(upload.MIMEType)) {
		return "", apperrors.UnsupportedMediaType(upload.MIMEType)
	}
	sanitized := storage.SanitizeFilename(upload.Filename)
	if strings.Trim(sanitized, "._-") == "" {
		return "", apperrors.ValidationError("filename", "empty after sanitizing")
	}
	return sanitized, nil
}

// baseMIME strips parameters such as "; codecs=..."
func baseMIME(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// SpoolPrefix names temp files holding an upload while it is analyzed
const SpoolPrefix = "minewatch-upload-"

// spool copies the payload to a temp file so it can be both stored and decoded.
// The declared size is not trusted; the copy enforces the ceiling itself.
func (s *Service) spool(upload Upload) (*os.File, int64, error) {
	f, err := os.CreateTemp(s.opts.TempDir, SpoolPrefix+"*"+filepath.Ext(storage.SanitizeFilename(upload.Filename)))
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to spool upload")
	}

	src := upload.Data
	if s.opts.MaxBytes > 0 {
		src = io.LimitReader(src, s.opts.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	if err == nil && s.opts.MaxBytes > 0 && n > s.opts.MaxBytes {
		err = apperrors.PayloadTooLarge(n, s.opts.MaxBytes)
	}
	if err == nil && n == 0 {
		err = apperrors.MissingFieldError("video")
	}
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		if _, ok := apperrors.As(err); ok {
			return nil, 0, err
		}
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to spool upload")
	}
	return f, n, nil
}

func (s *Service) store(ctx context.Context, upload Upload, sanitized string, size int64, data io.Reader, now time.Time) (*models.Video, error) {
	key := storage.ObjectKey(now, sanitized)
	mimeType := baseMIME(upload.MIMEType)
	if err := s.deps.Storage.Put(ctx, key, data, mimeType); err != nil {
		return nil, apperrors.ExternalServiceError(s.deps.Storage.Name(), err).WithDetail("key", key)
	}

	video := &models.Video{
		StorageKey:    key,
		Bucket:        s.deps.Storage.Bucket(),
		Backend:       s.deps.Storage.Name(),
		OriginalName:  upload.Filename,
		SanitizedName: sanitized,
		Size:          size,
		MIMEType:      mimeType,
		PublicURL:     s.deps.Storage.PublicURL(key),
		UploadedBy:    upload.UploadedBy,
	}
	if err := s.deps.Videos.Create(ctx, video); err != nil {
		return nil, apperrors.DatabaseError("create video", err)
	}
	return video, nil
}

// truncate keeps three decimals without rounding up
func truncate(confidence float64) float64 {
	return math.Trunc(confidence*1000+1e-9) / 1000
}
