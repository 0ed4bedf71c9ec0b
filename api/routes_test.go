package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/database"
	"github.com/killallgit/minewatch-api/internal/services/violations"
	"github.com/killallgit/minewatch-api/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage:  config.StorageConfig{Backend: "local", Bucket: "videos", LocalDir: t.TempDir(), PublicBaseURL: "http://localhost:8080/media", TempDir: t.TempDir()},
		Recorder: config.RecorderConfig{Backend: "database", Table: "violations"},
		Upload: config.UploadConfig{
			MaxBytes:         1 << 20,
			AllowedMIMETypes: []string{"video/mp4", "video/quicktime"},
		},
		Analysis: config.AnalysisConfig{
			FPS: 30, Strategy: "prompt", LabelSet: "general", FrameCount: 6,
			FrameWidth: 640, JPEGQuality: 75, SyntheticMin: 3, SyntheticMax: 8, SyntheticRangeSeconds: 300,
		},
		Classifier: config.ClassifierConfig{CallInterval: 400 * time.Millisecond},
		Processing: config.ProcessingConfig{FFmpegPath: "ffmpeg-missing-for-tests", FFprobePath: "ffprobe-missing-for-tests"},
		Monitoring: config.MonitoringConfig{Enabled: true, MetricsPath: "/metrics"},
	}
}

func newTestServer(t *testing.T) (*Server, *types.Dependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	deps, err := NewDependencies(testConfig(t), db, zap.NewNop())
	require.NoError(t, err)

	srv, err := NewServer(deps)
	require.NoError(t, err)
	require.NoError(t, srv.Initialize())
	t.Cleanup(func() { srv.limiters.Close() })
	return srv, deps
}

func videoForm(t *testing.T, name, mimeType string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if content != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, name))
		h.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func do(t *testing.T, srv *Server, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestUploadAndBrowse(t *testing.T) {
	srv, _ := newTestServer(t)

	body, ct := videoForm(t, "No_Helmet_at_00_00_05.mp4", "video/mp4", []byte("fake mp4 payload"),
		map[string]string{"uploaded_by": "inspector-7"})
	w := do(t, srv, http.MethodPost, "/api/v1/videos", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.ViolationsCount)
	require.NotNil(t, result.Video)
	assert.Equal(t, "inspector-7", result.Video.UploadedBy)

	t.Run("list violations", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/violations?severity=critical", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list types.ViolationsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Equal(t, int64(3), list.Total)
		assert.Equal(t, 151, list.Violations[0].FrameNumber, "newest detection first")
	})

	t.Run("invalid filter", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/violations?severity=minor", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = do(t, srv, http.MethodGet, "/api/v1/violations?since="+url.QueryEscape("yesterday"), nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("seek", func(t *testing.T) {
		id := result.Details[1].ID
		w := do(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/violations/%d/seek", id), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var target violations.SeekTarget
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))
		assert.Equal(t, 150, target.FrameNumber)
		assert.InDelta(t, 5.0, target.Seconds, 1e-9)
		assert.Equal(t, result.Video.PublicURL, target.VideoURL)
	})

	t.Run("unknown violation", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/violations/9999", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("export csv", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/violations/export", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

		rows, err := csv.NewReader(w.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, violations.CSVHeader, rows[0])
	})

	t.Run("video catalog", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/videos?uploaded_by=inspector-7", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list types.VideosResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Equal(t, int64(1), list.Total)

		w = do(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/videos/%d", result.Video.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var detail types.VideoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		require.Len(t, detail.Runs, 1)
		assert.Equal(t, "done", detail.Runs[0].State)
		assert.Equal(t, "filename", detail.Runs[0].Path)
	})

	t.Run("stored media is served", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/media/videos/"+result.Video.StorageKey, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "fake mp4 payload", w.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/metrics", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `minewatch_violations_recorded_total{method="filename_parsing",severity="critical"} 3`)
		assert.Contains(t, w.Body.String(), `minewatch_analysis_runs_total{outcome="done"} 1`)
	})
}

func TestUploadWithoutClassifier(t *testing.T) {
	srv, _ := newTestServer(t)

	body, ct := videoForm(t, "shift_change.mp4", "video/mp4", []byte("payload"), nil)
	w := do(t, srv, http.MethodPost, "/api/v1/videos", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Zero(t, result.ViolationsCount)
	assert.Empty(t, result.Details)
}

func TestUploadRejections(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name     string
		filename string
		mimeType string
		content  []byte
		fields   map[string]string
		status   int
		code     string
	}{
		{"missing video", "", "", nil, map[string]string{"uploaded_by": "x"}, http.StatusBadRequest, "MISSING_FIELD"},
		{"wrong mime type", "clip.png", "image/png", []byte("png"), nil, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
		{"too large", "big.mp4", "video/mp4", bytes.Repeat([]byte("a"), 1<<20+1), nil, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"unusable name", "###", "video/mp4", []byte("a"), nil, http.StatusBadRequest, "VALIDATION"},
		{"bad detections", "a.mp4", "video/mp4", []byte("a"), map[string]string{"detections": "{"}, http.StatusBadRequest, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := videoForm(t, tt.filename, tt.mimeType, tt.content, tt.fields)
			w := do(t, srv, http.MethodPost, "/api/v1/videos", body, ct)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
		})
	}

	w := do(t, srv, http.MethodGet, "/api/v1/videos", nil, "")
	var list types.VideosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Zero(t, list.Total, "rejected uploads leave no catalog entry")
}

func TestDatasetsRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	payload := `{"name":"helmets","description":"north pit","labels":["helmet","vest"],"uploaded_by":"inspector-7"}`
	w := do(t, srv, http.MethodPost, "/api/v1/datasets", bytes.NewBufferString(payload), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)
	assert.True(t, strings.HasPrefix(id, "ds-"))

	w = do(t, srv, http.MethodGet, "/api/v1/datasets?uploaded_by=inspector-7", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list types.DatasetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = do(t, srv, http.MethodGet, "/api/v1/datasets/"+id, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, http.MethodGet, "/api/v1/datasets/ds-missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/datasets", bytes.NewBufferString(`{"name":"x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/version", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/docs", nil, "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)

	w = do(t, srv, http.MethodGet, "/api/v1/nothing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMediaMount(t *testing.T) {
	assert.Equal(t, "/media", mediaMount("http://localhost:8080/media"))
	assert.Equal(t, "/files/v", mediaMount("https://cdn.example.com/files/v/"))
	assert.Equal(t, "/media", mediaMount(""))
}
