package classifier

import (
	"context"
	"errors"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/taxonomy"
)

var (
	// ErrUnavailable means no classifier credential is configured
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrMalformedReply means the provider answered without a usable tool call
	ErrMalformedReply = errors.New("malformed classifier reply")
)

// Request is one unit of classification work. Image is nil for text-only
// prompts used when no frames could be sampled.
type Request struct {
	Image            []byte
	FrameNumber      int
	TimestampSeconds float64
	LabelSet         taxonomy.LabelSet
	TrainingHint     string
}

// Result is the structured reply of the classifier
type Result struct {
	HasViolation  bool            `json:"has_violation"`
	ViolationType string          `json:"violation_type"`
	Confidence    float64         `json:"confidence"`
	Severity      models.Severity `json:"severity"`
}

// FrameClassifier decides whether a frame shows a violation
type FrameClassifier interface {
	Classify(ctx context.Context, req Request) (*Result, error)
}

// Func adapts a function to FrameClassifier
type Func func(ctx context.Context, req Request) (*Result, error)

// Classify calls f
func (f Func) Classify(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
