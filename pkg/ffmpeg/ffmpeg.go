package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}
	return nil
}

// FrameAt decodes the single frame shown at ts seconds into the video.
func (f *FFmpeg) FrameAt(ctx context.Context, filePath string, ts float64) (image.Image, error) {
	if ts < 0 {
		return nil, NewProcessingError("frame_capture", filePath, ErrTimestampOutOfRange, "")
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	// -ss before -i seeks on keyframes then decodes forward, which is much
	// faster than output seeking on long recordings.
	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
		"-i", filePath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("frame_capture", filePath, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, NewProcessingError("frame_capture", filePath, ErrTimestampOutOfRange, stderr.String())
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, NewProcessingError("frame_decode", filePath, err, "")
	}
	return img, nil
}

func (f *FFmpeg) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}
