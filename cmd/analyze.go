package cmd

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/minewatch-api/api"
	"github.com/killallgit/minewatch-api/internal/database"
	"github.com/killallgit/minewatch-api/internal/services/analysis"
)

var (
	analyzeUploader string
	analyzeFrames   int
)

// videoTypes covers containers the mime package does not know
var videoTypes = map[string]string{
	".mp4": "video/mp4",
	".m4v": "video/mp4",
	".mov": "video/quicktime",
	".avi": "video/x-msvideo",
}

// analyzeCmd runs the violation pipeline on a local file
var analyzeCmd = &cobra.Command{
	Use:   "analyze <video-file>",
	Short: "Analyze a local video for safety violations",
	Long: `Run one analysis of a local video file through the same pipeline the
upload endpoint uses. The video is stored and cataloged, violations are
recorded and the result is printed as JSON.

Example:
  minewatch-api analyze ./No_Helmet_at_00_01_10.mp4
  minewatch-api analyze shift3.mp4 --uploader inspector-7 --frames 10`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeUploader, "uploader", "cli", "uploader identity recorded with the video")
	analyzeCmd.Flags().IntVar(&analyzeFrames, "frames", 0, "number of frames to sample (overrides config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read video: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	cfg, err := appConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("frames") {
		if analyzeFrames <= 0 {
			return fmt.Errorf("--frames must be positive, got %d", analyzeFrames)
		}
		cfg.Analysis.FrameCount = analyzeFrames
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.InitializeFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	deps, err := api.NewDependencies(cfg, db, logger)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open video: %w", err)
	}
	defer f.Close()

	outcome, err := deps.Analyzer.Analyze(cmd.Context(), analysis.Upload{
		Data:       f,
		Size:       info.Size(),
		Filename:   filepath.Base(path),
		MIMEType:   mimeFor(path),
		UploadedBy: analyzeUploader,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

func mimeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
