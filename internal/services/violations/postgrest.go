package violations

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/supabase-community/postgrest-go"
)

// PostgrestRepository stores violations in a hosted PostgREST table
type PostgrestRepository struct {
	client *postgrest.Client
	table  string
}

// NewPostgrestRepository connects to <projectURL>/rest/v1
func NewPostgrestRepository(projectURL, apiKey, schema, table string) (*PostgrestRepository, error) {
	if projectURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase url and api key are required")
	}
	if table == "" {
		table = "violations"
	}
	if schema == "" {
		schema = "public"
	}

	endpoint := strings.TrimSuffix(projectURL, "/") + "/rest/v1"
	client := postgrest.NewClient(endpoint, schema, map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("postgrest client: %w", client.ClientError)
	}
	return &PostgrestRepository{client: client, table: table}, nil
}

// Create inserts the row and copies back the generated id
func (r *PostgrestRepository) Create(ctx context.Context, v *models.Violation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.EnsureUUID()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	body, _, err := r.client.From(r.table).Insert(v, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("postgrest insert: %w", err)
	}

	var rows []models.Violation
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("postgrest insert response: %w", err)
	}
	if len(rows) > 0 {
		v.ID = rows[0].ID
	}
	return nil
}

func (r *PostgrestRepository) List(ctx context.Context, filter Filter) ([]models.Violation, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	filter = filter.Normalize()

	query := r.client.From(r.table).Select("*", "exact", false)
	if filter.Type != "" {
		query = query.Eq("violation_type", filter.Type)
	}
	if filter.Severity != "" {
		query = query.Eq("severity", filter.Severity)
	}
	if filter.Method != "" {
		query = query.Eq("detection_method", filter.Method)
	}
	if filter.VideoID != 0 {
		query = query.Eq("video_id", strconv.FormatUint(uint64(filter.VideoID), 10))
	}
	// Query params are keyed by column, so every detected_at bound goes
	// into one logic tree instead of overwriting each other.
	if tree := timeConditions(filter); tree != "" {
		query = query.Or(tree, "")
	}

	var out []models.Violation
	count, err := query.
		Order("detected_at", &postgrest.OrderOpts{Ascending: false}).
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		Range(filter.Offset, filter.Offset+filter.Limit-1, "").
		ExecuteTo(&out)
	if err != nil {
		return nil, 0, fmt.Errorf("postgrest select: %w", err)
	}
	return out, int64(count), nil
}

// timeConditions renders the time window and keyset cursor as a single
// and(...) group, or "" when the filter has neither.
func timeConditions(filter Filter) string {
	var conds []string
	if filter.Since != nil {
		conds = append(conds, "detected_at.gte."+pgTime(*filter.Since))
	}
	if filter.Until != nil {
		conds = append(conds, "detected_at.lte."+pgTime(*filter.Until))
	}
	if c := filter.After; c != nil {
		at := pgTime(c.DetectedAt)
		conds = append(conds, fmt.Sprintf("or(detected_at.lt.%s,and(detected_at.eq.%s,id.lt.%d))", at, at, c.ID))
	}
	if len(conds) == 0 {
		return ""
	}
	return "and(" + strings.Join(conds, ",") + ")"
}

func pgTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (r *PostgrestRepository) GetByID(ctx context.Context, id uint) (*models.Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Violation
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Eq("id", strconv.FormatUint(uint64(id), 10)).
		Limit(1, "").
		ExecuteTo(&out)
	if err != nil {
		return nil, fmt.Errorf("postgrest select: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}
