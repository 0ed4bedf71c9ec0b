package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
)

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		Bitrate    string `json:"bit_rate"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		Duration   string `json:"duration"`
	} `json:"streams"`
}

// GetVideoMetadata extracts metadata from the first video stream using ffprobe
func (f *FFmpeg) GetVideoMetadata(ctx context.Context, filePath string) (*VideoMetadata, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		"-of", "json",
		filePath,
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("metadata_extraction", filePath, err, stderr.String())
	}

	return parseMetadata(stdout.Bytes(), filePath)
}

// Duration returns the container duration in seconds
func (f *FFmpeg) Duration(ctx context.Context, filePath string) (float64, error) {
	metadata, err := f.GetVideoMetadata(ctx, filePath)
	if err != nil {
		return 0, err
	}
	return metadata.Duration, nil
}

// parseMetadata converts raw ffprobe JSON to VideoMetadata
func parseMetadata(raw []byte, filePath string) (*VideoMetadata, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, NewProcessingError("metadata_parsing", filePath, err, "")
	}

	metadata := &VideoMetadata{Format: output.Format.FormatName}

	if output.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
			metadata.Duration = duration
		}
	}
	if output.Format.Size != "" {
		if size, err := strconv.ParseInt(output.Format.Size, 10, 64); err == nil {
			metadata.Size = size
		}
	}
	if output.Format.Bitrate != "" {
		if bitrate, err := strconv.Atoi(output.Format.Bitrate); err == nil {
			metadata.BitRate = bitrate
		}
	}

	found := false
	for _, stream := range output.Streams {
		if stream.CodecType != "video" {
			continue
		}
		found = true
		metadata.Codec = stream.CodecName
		metadata.Width = stream.Width
		metadata.Height = stream.Height
		metadata.FrameRate = stream.RFrameRate

		// Some containers only report duration on the stream
		if metadata.Duration == 0 && stream.Duration != "" {
			if duration, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
				metadata.Duration = duration
			}
		}
		break
	}

	if !found {
		return nil, NewProcessingError("metadata_validation", filePath, ErrNoVideoStream, "")
	}
	if metadata.Duration <= 0 {
		return nil, NewProcessingError("metadata_validation", filePath, ErrUnknownDuration, "")
	}

	return metadata, nil
}
