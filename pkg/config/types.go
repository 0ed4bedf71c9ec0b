package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string             `mapstructure:"environment"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Supabase     SupabaseConfig     `mapstructure:"supabase"`
	Recorder     RecorderConfig     `mapstructure:"recorder"`
	Upload       UploadConfig       `mapstructure:"upload"`
	Analysis     AnalysisConfig     `mapstructure:"analysis"`
	Classifier   ClassifierConfig   `mapstructure:"classifier"`
	Processing   ProcessingConfig   `mapstructure:"processing"`
	RateLimiting RateLimitConfig    `mapstructure:"rate_limiting"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig selects and configures the object storage backend
type StorageConfig struct {
	Backend       string `mapstructure:"backend"` // local | supabase
	Bucket        string `mapstructure:"bucket"`
	LocalDir      string `mapstructure:"local_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	TempDir       string `mapstructure:"temp_dir"`

	// Stale upload spool files in TempDir are swept by the serve command
	SpoolMaxAge        time.Duration `mapstructure:"spool_max_age"`
	SpoolSweepInterval time.Duration `mapstructure:"spool_sweep_interval"`
}

// SupabaseConfig contains hosted backend credentials shared by storage and recorder
type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Schema string `mapstructure:"schema"`
}

// RecorderConfig selects where violation rows are written
type RecorderConfig struct {
	Backend string `mapstructure:"backend"` // database | postgrest
	Table   string `mapstructure:"table"`
}

// UploadConfig contains boundary limits for uploaded videos
type UploadConfig struct {
	MaxBytes         int64    `mapstructure:"max_bytes"`
	AllowedMIMETypes []string `mapstructure:"allowed_mime_types"`
}

// AnalysisConfig contains pipeline settings
type AnalysisConfig struct {
	FPS                   int     `mapstructure:"fps"`
	Strategy              string  `mapstructure:"strategy"`  // prompt | geometric | hybrid
	LabelSet              string  `mapstructure:"label_set"` // general | equipment
	FrameCount            int     `mapstructure:"frame_count"`
	FrameWidth            int     `mapstructure:"frame_width"`
	JPEGQuality           int     `mapstructure:"jpeg_quality"`
	SyntheticMin          int     `mapstructure:"synthetic_min"`
	SyntheticMax          int     `mapstructure:"synthetic_max"`
	SyntheticRangeSeconds float64 `mapstructure:"synthetic_range_seconds"`
}

// ClassifierConfig contains settings for the prompt-based frame classifier
type ClassifierConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CallInterval time.Duration `mapstructure:"call_interval"`
}

// ProcessingConfig contains video decoding settings
type ProcessingConfig struct {
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	FFprobePath   string        `mapstructure:"ffprobe_path"`
	FFmpegTimeout time.Duration `mapstructure:"ffmpeg_timeout"`
}

// RateLimitConfig contains per-client HTTP rate limits
type RateLimitConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	UploadRPS   int  `mapstructure:"upload_rps"`
	UploadBurst int  `mapstructure:"upload_burst"`
	ReadRPS     int  `mapstructure:"read_rps"`
	ReadBurst   int  `mapstructure:"read_burst"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// MonitoringConfig contains metrics settings
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}
