package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ffmpeg := New("ffmpeg", "ffprobe", 30*time.Second)
	if ffmpeg.ffmpegPath != "ffmpeg" {
		t.Errorf("Expected ffmpegPath to be 'ffmpeg', got %s", ffmpeg.ffmpegPath)
	}
	if ffmpeg.ffprobePath != "ffprobe" {
		t.Errorf("Expected ffprobePath to be 'ffprobe', got %s", ffmpeg.ffprobePath)
	}
	if ffmpeg.timeout != 30*time.Second {
		t.Errorf("Expected timeout to be 30s, got %v", ffmpeg.timeout)
	}

	defaults := New("", "", 0)
	if defaults.ffmpegPath != "ffmpeg" || defaults.ffprobePath != "ffprobe" {
		t.Errorf("Expected PATH defaults, got %s / %s", defaults.ffmpegPath, defaults.ffprobePath)
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		duration float64
		width    int
		wantErr  error
	}{
		{
			name: "format duration",
			raw: `{"format":{"duration":"12.500000","size":"1048576","bit_rate":"671088","format_name":"mov,mp4,m4a,3gp,3g2,mj2"},
				"streams":[{"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"r_frame_rate":"30/1"}]}`,
			duration: 12.5,
			width:    1920,
		},
		{
			name:     "stream duration fallback",
			raw:      `{"format":{},"streams":[{"codec_type":"video","codec_name":"vp9","width":640,"height":360,"duration":"4.0"}]}`,
			duration: 4.0,
			width:    640,
		},
		{
			name:    "no video stream",
			raw:     `{"format":{"duration":"3.0"},"streams":[{"codec_type":"audio","codec_name":"aac"}]}`,
			wantErr: ErrNoVideoStream,
		},
		{
			name:    "missing duration",
			raw:     `{"format":{},"streams":[{"codec_type":"video","codec_name":"h264"}]}`,
			wantErr: ErrUnknownDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, err := parseMetadata([]byte(tt.raw), "clip.mp4")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				var procErr *ProcessingError
				if !errors.As(err, &procErr) {
					t.Errorf("Expected ProcessingError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if metadata.Duration != tt.duration {
				t.Errorf("Expected duration %v, got %v", tt.duration, metadata.Duration)
			}
			if metadata.Width != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, metadata.Width)
			}
		})
	}
}

func TestParseMetadataInvalidJSON(t *testing.T) {
	if _, err := parseMetadata([]byte("not json"), "clip.mp4"); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestProcessingErrorMessage(t *testing.T) {
	err := NewProcessingError("frame_capture", "clip.mp4", ErrTimestampOutOfRange, "seek failed")
	want := "ffmpeg frame_capture failed for clip.mp4: timestamp outside video duration (stderr: seek failed)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestFrameAtRejectsNegativeTimestamp(t *testing.T) {
	ffmpeg := New("ffmpeg", "ffprobe", time.Second)
	_, err := ffmpeg.FrameAt(context.Background(), "clip.mp4", -1)
	if !errors.Is(err, ErrTimestampOutOfRange) {
		t.Errorf("Expected ErrTimestampOutOfRange, got %v", err)
	}
}

// Integration test - only runs if ffmpeg/ffprobe are available
func TestFrameAtWithGeneratedVideo(t *testing.T) {
	ffmpeg := New("ffmpeg", "ffprobe", 30*time.Second)
	if err := ffmpeg.ValidateBinaries(); err != nil {
		t.Skipf("FFmpeg binaries not available: %v", err)
	}

	path := filepath.Join(t.TempDir(), "testsrc.mp4")
	gen := exec.Command("ffmpeg", "-v", "error", "-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=30",
		"-pix_fmt", "yuv420p", "-y", path)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("could not generate test video: %v (%s)", err, out)
	}

	ctx := context.Background()
	duration, err := ffmpeg.Duration(ctx, path)
	if err != nil {
		t.Fatalf("Duration failed: %v", err)
	}
	if duration < 1.9 || duration > 2.1 {
		t.Errorf("Expected duration near 2s, got %v", duration)
	}

	img, err := ffmpeg.FrameAt(ctx, path, 1.0)
	if err != nil {
		t.Fatalf("FrameAt failed: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("Expected 320x240 frame, got %v", img.Bounds())
	}
}
