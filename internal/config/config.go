// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// JobQueueSize bounds the in-memory replay job queue.
	JobQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of replay workers.
	WorkerCount int `koanf:"worker_count"`

	// ResultCapacity bounds the in-memory replay result store.
	ResultCapacity int `koanf:"result_capacity"`

	// SampleFPS is the sparse detection sampling rate within the replay window.
	SampleFPS float64 `koanf:"sample_fps"`

	// TargetFPS is the dense animation track frame rate.
	TargetFPS float64 `koanf:"target_fps"`

	// WindowRadiusSeconds extends the replay window around the resolved offset.
	WindowRadiusSeconds float64 `koanf:"window_radius_s"`

	// SampleTimeoutMS bounds one seek+detect cycle; expiry counts as a gap.
	SampleTimeoutMS int `koanf:"sample_timeout_ms"`

	// DetectorURL is the base URL of the remote object-detection service.
	DetectorURL string `koanf:"detector_url"`

	// SeekSettleMS is the delay after seek completion before the frame is read.
	SeekSettleMS int `koanf:"seek_settle_ms"`

	// SQLitePath locates the match metadata database. Empty selects the
	// in-memory store (tests and demos).
	SQLitePath string `koanf:"sqlite_path"`

	// FFmpegPath and FFprobePath locate the media tool binaries.
	FFmpegPath  string `koanf:"ffmpeg_path"`
	FFprobePath string `koanf:"ffprobe_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		JobQueueSize:        1024,
		WorkerCount:         runtime.NumCPU(),
		ResultCapacity:      512,
		SampleFPS:           5,
		TargetFPS:           25,
		WindowRadiusSeconds: 4,
		SampleTimeoutMS:     2000,
		DetectorURL:         "http://127.0.0.1:9090",
		SeekSettleMS:        40,
		SQLitePath:          "",
		FFmpegPath:          "ffmpeg",
		FFprobePath:         "ffprobe",
	}
}
