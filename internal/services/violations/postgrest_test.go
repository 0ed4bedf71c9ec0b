package violations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgrestRepository_Create(t *testing.T) {
	var inserted map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/violations", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &inserted))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":42,"violation_type":"No Helmet","frame_number":150}]`)
	}))
	defer server.Close()

	repo, err := NewPostgrestRepository(server.URL, "service-key", "", "")
	require.NoError(t, err)

	v := &models.Violation{ViolationType: "No Helmet", FrameNumber: 150, Severity: models.SeverityCritical}
	require.NoError(t, repo.Create(context.Background(), v))

	assert.Equal(t, uint(42), v.ID)
	assert.NotEmpty(t, v.UUID)
	assert.Equal(t, "No Helmet", inserted["violation_type"])
	assert.NotContains(t, inserted, "id")
}

func TestPostgrestRepository_List(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		query = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", "0-1/2")
		io.WriteString(w, `[{"id":2,"violation_type":"No Helmet","severity":"critical"},{"id":1,"violation_type":"No Helmet","severity":"critical"}]`)
	}))
	defer server.Close()

	repo, err := NewPostgrestRepository(server.URL, "service-key", "public", "violations")
	require.NoError(t, err)

	got, total, err := repo.List(context.Background(), Filter{Type: "No Helmet", Severity: "critical", VideoID: 7})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, int64(2), total)

	assert.Equal(t, []string{"eq.No Helmet"}, query["violation_type"])
	assert.Equal(t, []string{"eq.critical"}, query["severity"])
	assert.Equal(t, []string{"eq.7"}, query["video_id"])
	require.NotEmpty(t, query["order"])
	assert.True(t, strings.HasPrefix(query["order"][0], "detected_at.desc"))
}

func TestPostgrestRepository_ListTimeWindowAndCursor(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", "*/0")
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	repo, err := NewPostgrestRepository(server.URL, "service-key", "", "")
	require.NoError(t, err)

	since := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	until := since.Add(time.Hour)
	cursor := &Cursor{DetectedAt: since.Add(30 * time.Minute), ID: 12}
	_, _, err = repo.List(context.Background(), Filter{Since: &since, Until: &until, After: cursor, Offset: 40})
	require.NoError(t, err)

	assert.Equal(t, []string{"(and(" +
		"detected_at.gte.2024-06-01T08:00:00Z," +
		"detected_at.lte.2024-06-01T09:00:00Z," +
		"or(detected_at.lt.2024-06-01T08:30:00Z,and(detected_at.eq.2024-06-01T08:30:00Z,id.lt.12))))"}, query["or"])
	assert.Empty(t, query["detected_at"], "bounds must not be set per column")
	assert.Equal(t, []string{"detected_at.desc.nullslast,id.desc.nullslast"}, query["order"])
	assert.Equal(t, []string{"0"}, query["offset"], "cursor paging starts at the cursor")
}

func TestTimeConditions(t *testing.T) {
	assert.Empty(t, timeConditions(Filter{Type: "No Helmet"}))

	since := time.Date(2024, 6, 1, 8, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	assert.Equal(t, "and(detected_at.gte.2024-06-01T06:00:00Z)", timeConditions(Filter{Since: &since}))
}

func TestPostgrestRepository_GetByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"eq.9"}, r.URL.Query()["id"])
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	repo, err := NewPostgrestRepository(server.URL, "service-key", "", "")
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRepositoryFromConfig(t *testing.T) {
	db := newTestDB(t)

	repo, err := NewRepositoryFromConfig(config.RecorderConfig{Backend: "database"}, config.SupabaseConfig{}, db.DB)
	require.NoError(t, err)
	assert.IsType(t, &RepositoryImpl{}, repo)

	_, err = NewRepositoryFromConfig(config.RecorderConfig{Backend: "postgrest"}, config.SupabaseConfig{}, nil)
	assert.Error(t, err)

	repo, err = NewRepositoryFromConfig(config.RecorderConfig{Backend: "postgrest"},
		config.SupabaseConfig{URL: "https://example.supabase.co", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PostgrestRepository{}, repo)

	_, err = NewRepositoryFromConfig(config.RecorderConfig{Backend: "kafka"}, config.SupabaseConfig{}, nil)
	assert.Error(t, err)
}
