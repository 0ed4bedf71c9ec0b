package analysis

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/frames"
)

// Strategy names
const (
	StrategyPrompt    = "prompt"
	StrategyGeometric = "geometric"
	StrategyHybrid    = "hybrid"
)

// Path taken by a run
const (
	PathFilename  = "filename"
	PathSampled   = "sampled"
	PathSynthetic = "synthetic"
	PathGeometric = "geometric"
	PathNone      = "none"
)

// Upload is one video submitted for analysis
type Upload struct {
	Data       io.Reader // nil means the payload is missing
	Size       int64     // declared size in bytes
	Filename   string    // original name, source of filename hints
	MIMEType   string
	UploadedBy string

	// Optional pre-sampled frames; when present the server does not decode the video
	Frames []frames.Frame

	// Optional per-frame detector output for the geometric rules
	Detections []models.FrameDetections

	// Requested sample count, zero means the configured default
	FrameCount int
}

// Outcome is the result of a successful run
type Outcome struct {
	Success         bool               `json:"success"`
	RunID           string             `json:"run_id"`
	ViolationsCount int                `json:"violationsCount"`
	Details         []models.Violation `json:"details"`
	Video           *models.Video      `json:"video"`
	Path            string             `json:"path"`
	WriteFailures   int                `json:"write_failures"`
}

// FrameSampler extracts frames from a spooled video
type FrameSampler interface {
	Sample(ctx context.Context, path string, n int) ([]frames.Frame, error)
}

// HintSource provides the training-context hint for an uploader
type HintSource interface {
	TrainingHint(ctx context.Context, uploader string) (string, error)
}

// Random is the randomness a run consumes
type Random interface {
	Float64() float64
	IntN(n int) int
}

type defaultRandom struct{}

func (defaultRandom) Float64() float64 { return rand.Float64() }

func (defaultRandom) IntN(n int) int { return rand.IntN(n) }
