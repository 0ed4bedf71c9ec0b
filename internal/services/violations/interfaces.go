package violations

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/killallgit/minewatch-api/internal/models"
)

// ErrNotFound is returned when a violation does not exist
var ErrNotFound = errors.New("violation not found")

// Listing bounds
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Filter narrows violation listings. Zero values match everything.
type Filter struct {
	Type     string
	Severity string
	Method   string
	VideoID  uint
	Since    *time.Time
	Until    *time.Time
	Limit    int
	Offset   int

	// After resumes a detected_at DESC, id DESC listing strictly past the
	// given row. Offset is ignored when it is set.
	After *Cursor
}

// Cursor identifies a row's position in listing order
type Cursor struct {
	DetectedAt time.Time
	ID         uint
}

// CursorOf returns the position of v
func CursorOf(v models.Violation) *Cursor {
	return &Cursor{DetectedAt: v.DetectedAt, ID: v.ID}
}

// Normalize applies listing bounds
func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 || f.After != nil {
		f.Offset = 0
	}
	return f
}

// Repository defines the violation store. Rows are insert-only.
type Repository interface {
	Create(ctx context.Context, v *models.Violation) error
	List(ctx context.Context, filter Filter) ([]models.Violation, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Violation, error)
}

// Recorder persists accepted violations
type Recorder interface {
	Record(ctx context.Context, v *models.Violation) error
}

// SeekTarget is where the player jumps for a violation
type SeekTarget struct {
	VideoURL    string  `json:"video_url"`
	FrameNumber int     `json:"frame_number"`
	Seconds     float64 `json:"seconds"`
}

// Service defines violation operations exposed to the API
type Service interface {
	Recorder
	List(ctx context.Context, filter Filter) ([]models.Violation, int64, error)
	Get(ctx context.Context, id uint) (*models.Violation, error)
	Seek(ctx context.Context, id uint) (*SeekTarget, error)
	ExportCSV(ctx context.Context, filter Filter, w io.Writer) (int, error)
	Subscribe() (int, <-chan models.Violation)
	Unsubscribe(id int)
}
