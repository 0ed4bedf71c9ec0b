package types

import (
	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/violations"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// AnalysisResponse is returned by the upload endpoint
type AnalysisResponse struct {
	Success         bool               `json:"success"`
	ViolationsCount int                `json:"violationsCount"`
	Details         []models.Violation `json:"details"`
	Video           *models.Video      `json:"video,omitempty"`
	RunID           string             `json:"run_id,omitempty"`
	Path            string             `json:"path,omitempty"`
}

// VideosResponse for video catalog listings
type VideosResponse struct {
	Videos []models.Video `json:"videos"`
	Count  int            `json:"count"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
}

// VideoResponse for a single video with its analysis runs
type VideoResponse struct {
	Video *models.Video        `json:"video"`
	Runs  []models.AnalysisRun `json:"runs"`
}

// ViolationsResponse for violation listings
type ViolationsResponse struct {
	Violations []models.Violation `json:"violations"`
	Count      int                `json:"count"`
	Total      int64              `json:"total"`
	Offset     int                `json:"offset"`
}

// SeekResponse positions the player on a violation
type SeekResponse = violations.SeekTarget

// DatasetsResponse for dataset listings
type DatasetsResponse struct {
	Datasets []models.Dataset `json:"datasets"`
	Count    int              `json:"count"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Database  map[string]interface{} `json:"database"`
	Storage   string                 `json:"storage,omitempty"`
}
