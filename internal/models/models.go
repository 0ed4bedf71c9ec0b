package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Severity of a recorded violation
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	return s == SeverityCritical || s == SeverityWarning
}

// DetectionMethod tags the provenance of a violation
type DetectionMethod string

const (
	MethodFilename     DetectionMethod = "filename_parsing"
	MethodGeometric    DetectionMethod = "geometric_rule"
	MethodPromptVision DetectionMethod = "prompt_vision"
	MethodPromptText   DetectionMethod = "prompt_text"
)

// Video represents an uploaded video stored in object storage
type Video struct {
	gorm.Model
	StorageKey    string `json:"storage_key" gorm:"uniqueIndex;not null"` // <epochMillis>_<sanitized>
	Bucket        string `json:"bucket"`
	Backend       string `json:"backend"`                       // local|supabase
	OriginalName  string `json:"original_name" gorm:"not null"` // Source of filename hints
	SanitizedName string `json:"sanitized_name" gorm:"not null"`
	Size          int64  `json:"size"`
	MIMEType      string `json:"mime_type"`
	PublicURL     string `json:"public_url"`
	UploadedBy    string `json:"uploaded_by" gorm:"index"`
}

// TableName returns the table name for the Video model
func (Video) TableName() string {
	return "videos"
}

// Violation is a single recorded safety hazard tied to a video frame.
// Rows are insert-only.
type Violation struct {
	ID              uint            `json:"id,omitempty" gorm:"primaryKey"`
	UUID            string          `json:"uuid" gorm:"uniqueIndex;size:36"`
	RunID           string          `json:"run_id" gorm:"index;size:36"`
	VideoID         uint            `json:"video_id" gorm:"index"`
	VideoName       string          `json:"video_name"`
	VideoURL        string          `json:"video_url"`
	ViolationType   string          `json:"violation_type" gorm:"not null;index"`
	Category        string          `json:"category"`
	Confidence      float64         `json:"confidence"`
	FrameNumber     int             `json:"frame_number"`
	DetectedAt      time.Time       `json:"detected_at" gorm:"index"`
	Severity        Severity        `json:"severity" gorm:"index"`
	DetectionMethod DetectionMethod `json:"detection_method" gorm:"index"`
	UploadedBy      string          `json:"uploaded_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new violation
func (v *Violation) BeforeCreate(tx *gorm.DB) error {
	v.EnsureUUID()
	return nil
}

// EnsureUUID assigns a UUID when the violation has none. Recorders that
// bypass gorm call it directly.
func (v *Violation) EnsureUUID() {
	if v.UUID == "" {
		v.UUID = uuid.New().String()
	}
}

// TableName returns the table name for the Violation model
func (Violation) TableName() string {
	return "violations"
}

// Run states
const (
	RunStateInit            = "init"
	RunStateFilenameCheck   = "filename_check"
	RunStateFilenameDerived = "filename_derived"
	RunStateFrameSampling   = "frame_sampling"
	RunStateClassify        = "classify"
	RunStateRecorded        = "recorded"
	RunStateDone            = "done"
	RunStateFailed          = "failed"
)

// AnalysisRun records the outcome of one pass of the violation pipeline over a video
type AnalysisRun struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UUID            string     `json:"uuid" gorm:"uniqueIndex;size:36"`
	VideoID         uint       `json:"video_id" gorm:"index"`
	Strategy        string     `json:"strategy"`
	State           string     `json:"state"`
	Path            string     `json:"path"` // filename|sampled|synthetic|geometric|none, joined with "+" for hybrid runs
	FramesAnalyzed  int        `json:"frames_analyzed"`
	ViolationsCount int        `json:"violations_count"`
	WriteFailures   int        `json:"write_failures"`
	Error           string     `json:"error,omitempty" gorm:"type:text"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// TableName returns the table name for the AnalysisRun model
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// All returns every persisted model, in migration order
func All() []any {
	return []any{&Video{}, &Violation{}, &Dataset{}, &AnalysisRun{}}
}
