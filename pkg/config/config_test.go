package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "load from settings file",
			content: `
server:
  port: 9000
analysis:
  strategy: prompt
`,
			check: func(t *testing.T) {
				assert.Equal(t, 9000, GetInt("server.port"))
				assert.Equal(t, "prompt", GetString("analysis.strategy"))
			},
		},
		{
			name:    "environment variable override",
			content: "server:\n  port: 8080\n",
			env:     map[string]string{"MINEWATCH_SERVER_PORT": "9090"},
			check: func(t *testing.T) {
				assert.Equal(t, 9090, GetInt("server.port"))
			},
		},
		{
			name: "defaults when file is missing",
			check: func(t *testing.T) {
				assert.Equal(t, 8080, GetInt("server.port"))
				assert.Equal(t, 30, GetInt("analysis.fps"))
				assert.Equal(t, "hybrid", GetString("analysis.strategy"))
				assert.Equal(t, int64(250*1024*1024), viper.GetInt64("upload.max_bytes"))
				assert.Equal(t, 400*time.Millisecond, GetDuration("classifier.call_interval"))
			},
		},
		{
			name:    "call interval outside window is corrected",
			content: "classifier:\n  call_interval: 50ms\n",
			check: func(t *testing.T) {
				assert.Equal(t, 400*time.Millisecond, GetDuration("classifier.call_interval"))
			},
		},
		{
			name:    "unknown strategy is rejected",
			content: "analysis:\n  strategy: yolo\n",
			wantErr: true,
		},
		{
			name:    "invalid port is rejected",
			content: "server:\n  port: 70000\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.content != "" {
				path = writeConfig(t, tt.content)
			}

			err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t)
		})
	}
}

func TestGetConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(""))

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "database", cfg.Recorder.Backend)
	assert.Equal(t, 640, cfg.Analysis.FrameWidth)
	assert.Equal(t, 75, cfg.Analysis.JPEGQuality)
	assert.Contains(t, cfg.Upload.AllowedMIMETypes, "video/quicktime")
	assert.Len(t, cfg.Upload.AllowedMIMETypes, 5)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: 8080},
			Upload:     UploadConfig{MaxBytes: 1024},
			Analysis:   AnalysisConfig{FPS: 30, Strategy: "hybrid", FrameCount: 1},
			Classifier: ClassifierConfig{CallInterval: time.Second},
		}
	}

	t.Run("auto-corrects sampling and pacing", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 6, cfg.Analysis.FrameCount)
		assert.Equal(t, 400*time.Millisecond, cfg.Classifier.CallInterval)
	})

	t.Run("rejects zero fps", func(t *testing.T) {
		cfg := valid()
		cfg.Analysis.FPS = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		cfg := valid()
		cfg.Analysis.Strategy = "random"
		assert.Error(t, cfg.Validate())
	})
}
