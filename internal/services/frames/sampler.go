// Package frames samples evenly spaced still images from a video.
package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	DefaultCount   = 6
	MinCount       = 3
	DefaultWidth   = 640
	DefaultQuality = 75
)

// ErrFrameExtraction is matched by every sampling failure
var ErrFrameExtraction = errors.New("frame extraction failed")

// ExtractionError describes which step of sampling failed
type ExtractionError struct {
	Timestamp float64 // -1 when the duration lookup failed
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Timestamp < 0 {
		return fmt.Sprintf("frame extraction failed: duration: %v", e.Err)
	}
	return fmt.Sprintf("frame extraction failed at %.3fs: %v", e.Timestamp, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{ErrFrameExtraction, e.Err}
}

// Source decodes a video. pkg/ffmpeg satisfies it.
type Source interface {
	Duration(ctx context.Context, path string) (float64, error)
	FrameAt(ctx context.Context, path string, ts float64) (image.Image, error)
}

// Frame is one JPEG-encoded sample
type Frame struct {
	JPEG             []byte  `json:"-"`
	TimestampSeconds float64 `json:"timestamp_seconds"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
}

// Options control how frames are scaled and encoded
type Options struct {
	Width   int
	Quality int
}

// Sampler captures frames from a Source one at a time
type Sampler struct {
	source  Source
	width   int
	quality int
	logger  *zap.Logger
}

// NewSampler creates a sampler. Zero options fall back to 640px at quality 75.
func NewSampler(source Source, opts Options, logger *zap.Logger) *Sampler {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		source:  source,
		width:   opts.Width,
		quality: opts.Quality,
		logger:  logger.Named("frames"),
	}
}

// Timestamps returns n timestamps spaced at (i+1)/(n+1) of duration
func Timestamps(duration float64, n int) []float64 {
	out := make([]float64, n)
	for i := range n {
		out[i] = float64(i+1) / float64(n+1) * duration
	}
	return out
}

// NormalizeCount maps a requested count to the supported range
func NormalizeCount(n int) int {
	switch {
	case n <= 0:
		return DefaultCount
	case n < MinCount:
		return MinCount
	}
	return n
}

// Sample extracts n frames from the video at path. Captures run strictly in
// sequence; any failure aborts the whole sample with an *ExtractionError.
func (s *Sampler) Sample(ctx context.Context, path string, n int) ([]Frame, error) {
	n = NormalizeCount(n)

	duration, err := s.source.Duration(ctx, path)
	if err != nil {
		return nil, &ExtractionError{Timestamp: -1, Err: err}
	}
	if duration <= 0 {
		return nil, &ExtractionError{Timestamp: -1, Err: fmt.Errorf("invalid duration %f", duration)}
	}

	frames := make([]Frame, 0, n)
	for _, ts := range Timestamps(duration, n) {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Timestamp: ts, Err: err}
		}

		img, err := s.source.FrameAt(ctx, path, ts)
		if err != nil {
			return nil, &ExtractionError{Timestamp: ts, Err: err}
		}

		frame, err := s.encode(img, ts)
		if err != nil {
			return nil, &ExtractionError{Timestamp: ts, Err: err}
		}
		frames = append(frames, frame)
	}

	s.logger.Debug("sampled frames",
		zap.String("path", path),
		zap.Float64("duration", duration),
		zap.Int("count", len(frames)))
	return frames, nil
}

func (s *Sampler) encode(img image.Image, ts float64) (Frame, error) {
	scaled := Rescale(img, s.width)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: s.quality}); err != nil {
		return Frame{}, fmt.Errorf("encode jpeg: %w", err)
	}

	b := scaled.Bounds()
	return Frame{
		JPEG:             buf.Bytes(),
		TimestampSeconds: ts,
		Width:            b.Dx(),
		Height:           b.Dy(),
	}, nil
}

// Rescale resizes img to the given width, preserving aspect ratio
func Rescale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}

	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
