package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigPath is where Init looks for an optional settings file
const DefaultConfigPath = "./config/settings.yaml"

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = Load(filepath.Clean(DefaultConfigPath))
	})
	return initErr
}

// Load resets viper defaults, reads the optional config file at path and
// applies MINEWATCH_* environment overrides.
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix("MINEWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			// A missing file is fine, defaults and env vars still apply
			if !os.IsNotExist(err) {
				return fmt.Errorf("error reading config file %s: %w", path, err)
			}
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

var (
	validStrategies = map[string]bool{"prompt": true, "geometric": true, "hybrid": true}
	validLabelSets  = map[string]bool{"general": true, "equipment": true}
	validStorage    = map[string]bool{"local": true, "supabase": true}
	validRecorders  = map[string]bool{"database": true, "postgrest": true}
)

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetInt("analysis.fps") <= 0 {
		return fmt.Errorf("invalid analysis fps: %d", viper.GetInt("analysis.fps"))
	}

	if s := viper.GetString("analysis.strategy"); !validStrategies[s] {
		return fmt.Errorf("unknown analysis strategy: %q", s)
	}
	if s := viper.GetString("analysis.label_set"); !validLabelSets[s] {
		return fmt.Errorf("unknown analysis label set: %q", s)
	}
	if s := viper.GetString("storage.backend"); !validStorage[s] {
		return fmt.Errorf("unknown storage backend: %q", s)
	}
	if s := viper.GetString("recorder.backend"); !validRecorders[s] {
		return fmt.Errorf("unknown recorder backend: %q", s)
	}

	if viper.GetInt64("upload.max_bytes") <= 0 {
		return fmt.Errorf("invalid upload max_bytes: %d", viper.GetInt64("upload.max_bytes"))
	}

	// Pacing between classifier calls stays inside the provider-safe window
	interval := viper.GetDuration("classifier.call_interval")
	if interval < 300*time.Millisecond || interval > 500*time.Millisecond {
		fmt.Printf("Warning: classifier.call_interval %s outside [300ms, 500ms], using 400ms\n", interval)
		viper.Set("classifier.call_interval", 400*time.Millisecond)
	}

	// Auto-correct frame sampling settings
	if viper.GetInt("analysis.frame_count") < 3 {
		viper.Set("analysis.frame_count", 6)
	}
	if viper.GetInt("analysis.synthetic_min") < 1 {
		viper.Set("analysis.synthetic_min", 3)
	}
	if viper.GetInt("analysis.synthetic_max") < viper.GetInt("analysis.synthetic_min") {
		viper.Set("analysis.synthetic_max", viper.GetInt("analysis.synthetic_min"))
	}

	return validateCredentials()
}

// validateCredentials warns about placeholder credentials and rejects them in production
func validateCredentials() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := map[string]bool{
		"":              true,
		"YOUR_KEY_HERE": true,
		"YOUR_API_KEY":  true,
		"changeme":      true,
		"CHANGEME":      true,
	}

	// A missing classifier key is not an error: prompt-based runs record nothing
	if placeholders[viper.GetString("classifier.api_key")] {
		fmt.Println("Warning: classifier API key not configured, prompt-based detection is disabled")
	}

	needsSupabase := viper.GetString("storage.backend") == "supabase" || viper.GetString("recorder.backend") == "postgrest"
	if needsSupabase && (viper.GetString("supabase.url") == "" || placeholders[viper.GetString("supabase.api_key")]) {
		if isProduction {
			return fmt.Errorf("supabase backend selected but supabase.url/api_key are not configured")
		}
		fmt.Println("Warning: supabase backend selected without credentials")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.FPS <= 0 {
		return fmt.Errorf("invalid analysis fps: %d", c.Analysis.FPS)
	}
	if !validStrategies[c.Analysis.Strategy] {
		return fmt.Errorf("unknown analysis strategy: %q", c.Analysis.Strategy)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid upload max_bytes: %d", c.Upload.MaxBytes)
	}
	if c.Analysis.FrameCount < 3 {
		c.Analysis.FrameCount = 6
	}
	if c.Classifier.CallInterval < 300*time.Millisecond || c.Classifier.CallInterval > 500*time.Millisecond {
		c.Classifier.CallInterval = 400 * time.Millisecond
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 5*time.Minute)
	viper.SetDefault("server.write_timeout", 10*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 30*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/minewatch.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.bucket", "videos")
	viper.SetDefault("storage.local_dir", "./data/media")
	viper.SetDefault("storage.public_base_url", "http://localhost:8080/media")
	viper.SetDefault("storage.temp_dir", os.TempDir())
	viper.SetDefault("storage.spool_max_age", time.Hour)
	viper.SetDefault("storage.spool_sweep_interval", 15*time.Minute)

	// Supabase defaults
	viper.SetDefault("supabase.url", "")
	viper.SetDefault("supabase.api_key", "")
	viper.SetDefault("supabase.schema", "public")

	// Recorder defaults
	viper.SetDefault("recorder.backend", "database")
	viper.SetDefault("recorder.table", "violations")

	// Upload defaults
	viper.SetDefault("upload.max_bytes", 250*1024*1024)
	viper.SetDefault("upload.allowed_mime_types", []string{
		"video/mp4", "video/avi", "video/mov", "video/quicktime", "video/x-msvideo",
	})

	// Analysis defaults
	viper.SetDefault("analysis.fps", 30)
	viper.SetDefault("analysis.strategy", "hybrid")
	viper.SetDefault("analysis.label_set", "general")
	viper.SetDefault("analysis.frame_count", 6)
	viper.SetDefault("analysis.frame_width", 640)
	viper.SetDefault("analysis.jpeg_quality", 75)
	viper.SetDefault("analysis.synthetic_min", 3)
	viper.SetDefault("analysis.synthetic_max", 8)
	viper.SetDefault("analysis.synthetic_range_seconds", 300.0)

	// Classifier defaults
	viper.SetDefault("classifier.api_key", "")
	viper.SetDefault("classifier.base_url", "https://api.openai.com/v1")
	viper.SetDefault("classifier.model", "gpt-4o-mini")
	viper.SetDefault("classifier.timeout", 30*time.Second)
	viper.SetDefault("classifier.call_interval", 400*time.Millisecond)

	// Processing defaults
	viper.SetDefault("processing.ffmpeg_path", "ffmpeg")
	viper.SetDefault("processing.ffprobe_path", "ffprobe")
	viper.SetDefault("processing.ffmpeg_timeout", 30*time.Second)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.upload_rps", 1)
	viper.SetDefault("rate_limiting.upload_burst", 3)
	viper.SetDefault("rate_limiting.read_rps", 10)
	viper.SetDefault("rate_limiting.read_burst", 20)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}
