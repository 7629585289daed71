package media

import (
	"time"

	"github.com/okian/rematch/pkg/logger"
)

// OpenerOption applies a configuration option to the Opener.
type OpenerOption func(*Opener)

// WithFFmpegPath overrides the ffmpeg binary used for frame extraction.
func WithFFmpegPath(path string) OpenerOption {
	return func(o *Opener) {
		if path != "" {
			o.ffmpegPath = path
		}
	}
}

// WithFFprobePath overrides the ffprobe binary used for duration probing.
func WithFFprobePath(path string) OpenerOption {
	return func(o *Opener) {
		if path != "" {
			o.ffprobePath = path
		}
	}
}

// WithSettleDelay sets the pause between seek completion and frame readout.
func WithSettleDelay(d time.Duration) OpenerOption {
	return func(o *Opener) {
		if d >= 0 {
			o.settleDelay = d
		}
	}
}

// WithLogger sets a custom logger for opened sources.
func WithLogger(l logger.Logger) OpenerOption {
	return func(o *Opener) {
		if l != nil {
			o.logger = l
		}
	}
}
