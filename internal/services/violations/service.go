package violations

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/killallgit/minewatch-api/internal/metrics"
	"github.com/killallgit/minewatch-api/internal/models"
	"go.uber.org/zap"
)

// CSVHeader is the export column order
var CSVHeader = []string{
	"id", "violation_type", "category", "severity", "confidence", "frame_number",
	"timestamp_seconds", "detected_at", "detection_method", "video_name", "video_url",
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	hub        *Hub
	metrics    *metrics.Metrics
	fps        int
	pageSize   int
	logger     *zap.Logger
}

// NewService creates a new violation service
func NewService(repository Repository, hub *Hub, m *metrics.Metrics, fps int, logger *zap.Logger) *ServiceImpl {
	if hub == nil {
		hub = NewHub()
	}
	if fps <= 0 {
		fps = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{
		repository: repository,
		hub:        hub,
		metrics:    m,
		fps:        fps,
		pageSize:   MaxLimit,
		logger:     logger.Named("violations"),
	}
}

// Record persists one violation and publishes it to stream subscribers
func (s *ServiceImpl) Record(ctx context.Context, v *models.Violation) error {
	if v.ViolationType == "" {
		return fmt.Errorf("violation type is required")
	}
	if v.FrameNumber < 0 {
		return fmt.Errorf("frame number must be non-negative, got %d", v.FrameNumber)
	}

	if err := s.repository.Create(ctx, v); err != nil {
		return fmt.Errorf("recording violation: %w", err)
	}

	s.metrics.ViolationRecorded(string(v.DetectionMethod), string(v.Severity))
	s.hub.Publish(*v)
	return nil
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]models.Violation, int64, error) {
	return s.repository.List(ctx, filter)
}

func (s *ServiceImpl) Get(ctx context.Context, id uint) (*models.Violation, error) {
	return s.repository.GetByID(ctx, id)
}

// Seek returns the video and offset the player should jump to
func (s *ServiceImpl) Seek(ctx context.Context, id uint) (*SeekTarget, error) {
	v, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SeekTarget{
		VideoURL:    v.VideoURL,
		FrameNumber: v.FrameNumber,
		Seconds:     float64(v.FrameNumber) / float64(s.fps),
	}, nil
}

// ExportCSV writes every violation matching filter. Pages are read with a
// keyset cursor so rows recorded during the export cannot shift the window.
func (s *ServiceImpl) ExportCSV(ctx context.Context, filter Filter, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}

	filter.Limit = s.pageSize
	filter.Offset = 0
	filter.After = nil
	written := 0
	for {
		page, _, err := s.repository.List(ctx, filter)
		if err != nil {
			return written, err
		}
		for _, v := range page {
			if err := cw.Write(s.row(v)); err != nil {
				return written, err
			}
			written++
		}
		if len(page) < filter.Limit {
			break
		}
		filter.After = CursorOf(page[len(page)-1])
	}

	cw.Flush()
	return written, cw.Error()
}

func (s *ServiceImpl) row(v models.Violation) []string {
	return []string{
		strconv.FormatUint(uint64(v.ID), 10),
		v.ViolationType,
		v.Category,
		string(v.Severity),
		strconv.FormatFloat(v.Confidence, 'f', 3, 64),
		strconv.Itoa(v.FrameNumber),
		strconv.FormatFloat(float64(v.FrameNumber)/float64(s.fps), 'f', 3, 64),
		v.DetectedAt.UTC().Format(time.RFC3339),
		string(v.DetectionMethod),
		v.VideoName,
		v.VideoURL,
	}
}

func (s *ServiceImpl) Subscribe() (int, <-chan models.Violation) {
	return s.hub.Subscribe()
}

func (s *ServiceImpl) Unsubscribe(id int) {
	s.hub.Unsubscribe(id)
}
