package videos

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/analysis"
	"github.com/killallgit/minewatch-api/internal/services/frames"
	apperrors "github.com/killallgit/minewatch-api/pkg/errors"
)

// maxFrameBytes caps a single pre-sampled frame image
const maxFrameBytes = 8 << 20

// Upload accepts a video and runs the violation pipeline on it
// @Summary      Upload a video for violation analysis
// @Description  Stores the video, records a catalog entry and runs the analysis synchronously.
// @Description  A violation label and timestamp encoded in the file name short-circuits classification.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Param        video             formData file   true  "Video file"
// @Param        filename          formData string false "Declared file name, defaults to the part file name"
// @Param        uploaded_by       formData string false "Uploader identity"
// @Param        frames            formData file   false "Pre-sampled frame images, repeatable"
// @Param        frame_timestamps  formData number false "Timestamp in seconds for each frame, same order"
// @Param        detections        formData string false "JSON array of per-frame detected objects"
// @Success      200 {object} types.AnalysisResponse
// @Failure      400 {object} types.ErrorResponse "Missing payload or unusable file name"
// @Failure      413 {object} types.ErrorResponse "Video larger than the configured ceiling"
// @Failure      415 {object} types.ErrorResponse "MIME type not allowed"
// @Failure      502 {object} types.ErrorResponse "Object storage failure"
// @Router       /api/v1/videos [post]
func Upload(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Analyzer == nil {
			types.SendServiceUnavailable(c, "analysis is not configured")
			return
		}

		header, err := c.FormFile("video")
		if err != nil {
			types.SendAppError(c, formError(err, "video"))
			return
		}

		file, err := header.Open()
		if err != nil {
			types.SendInternalError(c, "failed to read upload")
			return
		}
		defer file.Close()

		name := strings.TrimSpace(c.PostForm("filename"))
		if name == "" {
			name = header.Filename
		}

		upload := analysis.Upload{
			Data:       file,
			Size:       header.Size,
			Filename:   name,
			MIMEType:   header.Header.Get("Content-Type"),
			UploadedBy: c.PostForm("uploaded_by"),
		}

		if upload.Frames, err = readFrames(c); err != nil {
			types.SendAppError(c, err)
			return
		}
		if upload.Detections, err = readDetections(c); err != nil {
			types.SendAppError(c, err)
			return
		}

		outcome, err := deps.Analyzer.Analyze(c.Request.Context(), upload)
		if err != nil {
			deps.Log().Warn("upload rejected",
				zap.String("filename", name),
				zap.String("code", string(apperrors.GetCode(err))),
				zap.Error(err))
			types.SendAppError(c, err)
			return
		}

		types.SendSuccess(c, types.AnalysisResponse{
			Success:         outcome.Success,
			ViolationsCount: outcome.ViolationsCount,
			Details:         outcome.Details,
			Video:           outcome.Video,
			RunID:           outcome.RunID,
			Path:            outcome.Path,
		})
	}
}

// formError distinguishes an oversized body from an absent field
func formError(err error, field string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.PayloadTooLarge(tooLarge.Limit+1, tooLarge.Limit)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return apperrors.MissingFieldError(field)
	}
	return apperrors.ValidationError(field, err.Error())
}

func readFrames(c *gin.Context) ([]frames.Frame, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, formError(err, "frames")
	}
	files := form.File["frames"]
	if len(files) == 0 {
		return nil, nil
	}
	stamps := form.Value["frame_timestamps"]
	if len(stamps) != len(files) {
		return nil, apperrors.ValidationError("frame_timestamps",
			fmt.Sprintf("got %d timestamps for %d frames", len(stamps), len(files)))
	}

	out := make([]frames.Frame, 0, len(files))
	for i, fh := range files {
		ts, err := strconv.ParseFloat(strings.TrimSpace(stamps[i]), 64)
		if err != nil || ts < 0 {
			return nil, apperrors.ValidationError("frame_timestamps", fmt.Sprintf("invalid timestamp %q", stamps[i]))
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, apperrors.ValidationError("frames", err.Error())
		}
		out = append(out, frames.Frame{JPEG: data, TimestampSeconds: ts})
	}
	return out, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxFrameBytes {
		return nil, fmt.Errorf("frame %s exceeds %d bytes", fh.Filename, maxFrameBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxFrameBytes))
}

func readDetections(c *gin.Context) ([]models.FrameDetections, error) {
	raw := strings.TrimSpace(c.PostForm("detections"))
	if raw == "" {
		return nil, nil
	}
	var detections []models.FrameDetections
	if err := json.Unmarshal([]byte(raw), &detections); err != nil {
		return nil, apperrors.ValidationError("detections", err.Error())
	}
	for _, d := range detections {
		if d.FrameNumber < 0 {
			return nil, apperrors.ValidationError("detections", "frame_number must be non-negative")
		}
	}
	return detections, nil
}
