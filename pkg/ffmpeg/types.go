package ffmpeg

// VideoMetadata represents metadata extracted from a video file
type VideoMetadata struct {
	Duration  float64 `json:"duration"`   // Duration in seconds
	Width     int     `json:"width"`      // Frame width in pixels
	Height    int     `json:"height"`     // Frame height in pixels
	Codec     string  `json:"codec"`      // Video codec
	Format    string  `json:"format"`     // Container format (mov,mp4,...)
	FrameRate string  `json:"frame_rate"` // Reported r_frame_rate, informational only
	Size      int64   `json:"size"`       // File size in bytes
	BitRate   int     `json:"bit_rate"`   // Bitrate in bits per second
}
