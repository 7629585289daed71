// Package media adapts physical video files into the seekable source the
// sampler drives. The production implementation shells out to ffmpeg: one
// seek decodes exactly one frame, which keeps the single-decode-position
// contract trivially true.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/replay"
	"github.com/okian/rematch/pkg/logger"
)

// Default media adapter configuration constants.
const (
	defaultFFmpegPath  = "ffmpeg"
	defaultFFprobePath = "ffprobe"

	// defaultSettleDelay is the pause between seek completion and frame
	// readout. Decoders need a moment after reporting a seek before the
	// frame is actually stable; this is that moment, named and tunable,
	// instead of a magic sleep buried in business logic.
	defaultSettleDelay = 40 * time.Millisecond
)

// FileSource is a seekable media source over one video file. Exactly one
// seek may be in flight at a time; a second concurrent seek fails with
// ErrSeekInFlight rather than corrupting the decode position.
type FileSource struct {
	path        string
	duration    float64
	ffmpegPath  string
	settleDelay time.Duration
	logger      logger.Logger

	mu      sync.Mutex
	seeking bool
	frame   []byte
	closed  bool
}

// Seek decodes the frame at tSeconds. Seeking past the end clamps to the
// end. Returns once the frame is decoded and settled.
func (s *FileSource) Seek(ctx context.Context, tSeconds float64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSourceClosed
	}
	if s.seeking {
		s.mu.Unlock()
		return ErrSeekInFlight
	}
	s.seeking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.seeking = false
		s.mu.Unlock()
	}()

	if tSeconds < 0 {
		tSeconds = 0
	}
	if s.duration > 0 && tSeconds > s.duration {
		tSeconds = s.duration
	}

	frame, err := s.decodeFrame(ctx, tSeconds)
	if err != nil {
		return fmt.Errorf("decode frame at %.3fs: %w", tSeconds, err)
	}

	// Settle before publishing: reading immediately after decode has been
	// observed to hand the detector a stale or torn frame.
	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
	return nil
}

// decodeFrame extracts one JPEG frame at the given position.
func (s *FileSource) decodeFrame(ctx context.Context, tSeconds float64) ([]byte, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", strconv.FormatFloat(tSeconds, 'f', 3, 64),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame at %.3fs", tSeconds)
	}
	return out.Bytes(), nil
}

// Frame returns the most recently decoded frame.
func (s *FileSource) Frame(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.frame == nil {
		return nil, ErrNoFrame
	}
	return s.frame, nil
}

// DurationSeconds reports the measured media duration.
func (s *FileSource) DurationSeconds() float64 { return s.duration }

// Close releases the source. Subsequent seeks and reads fail.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.frame = nil
	return nil
}

// Opener opens FileSources for resolved assets. Implements replay.Opener.
type Opener struct {
	ffmpegPath  string
	ffprobePath string
	settleDelay time.Duration
	logger      logger.Logger
}

// NewOpener creates an Opener with configuration options.
func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{
		ffmpegPath:  defaultFFmpegPath,
		ffprobePath: defaultFFprobePath,
		settleDelay: defaultSettleDelay,
		logger:      logger.Get().Named("media"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Open builds a source over the asset's file. The asset's measured
// duration is preferred; ffprobe fills it in when the metadata lacks one.
func (o *Opener) Open(ctx context.Context, asset model.VideoAsset) (replay.Source, error) {
	duration := asset.DurationSeconds
	if duration <= 0 {
		probed, err := o.probeDuration(ctx, asset.FileRef)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", asset.FileRef, err)
		}
		duration = probed
	}

	return &FileSource{
		path:        asset.FileRef,
		duration:    duration,
		ffmpegPath:  o.ffmpegPath,
		settleDelay: o.settleDelay,
		logger:      o.logger,
	}, nil
}

// probeDuration asks ffprobe for the container duration in seconds.
func (o *Opener) probeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, o.ffprobePath, args...)
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration: %w", path, err)
	}
	return d, nil
}
