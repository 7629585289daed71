// Package detector is the HTTP client for the entity detection model
// service. One frame goes up as a JPEG body, one set of detections comes
// back as JSON.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/logger"
)

// Default detector client configuration constants.
const (
	defaultRequestTimeout = 2 * time.Second

	// maxResponseBytes caps how much of a detection response we are
	// willing to read. Detection payloads are small; anything bigger is
	// a misbehaving service.
	maxResponseBytes = 1 << 20
)

// playerDetection is one player in the model response.
type playerDetection struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Team       string  `json:"team"`
	Confidence float64 `json:"confidence"`
}

// ballDetection is the ball in the model response, absent when the ball
// is out of frame.
type ballDetection struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// detectResponse is the wire shape of a detection pass.
type detectResponse struct {
	Players []playerDetection `json:"players"`
	Ball    *ballDetection    `json:"ball"`
	Warning string            `json:"warning,omitempty"`
}

// Client calls the detection service. Implements the sampler's Detector.
type Client struct {
	url     string
	httpCli *http.Client
	logger  logger.Logger
}

// New creates a Client for the detection service at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:     url,
		httpCli: &http.Client{Timeout: defaultRequestTimeout},
		logger:  logger.Get().Named("detector"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Detect submits one frame and returns the detected entities. Player team
// strings are normalized; unrecognized teams degrade to unknown rather
// than failing the sample.
func (c *Client) Detect(ctx context.Context, frame []byte) ([]model.Entity, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read detect response: %w", err)
	}

	var dr detectResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}

	if dr.Warning != "" {
		c.logger.Warn(ctx, "detector warning", logger.String("warning", dr.Warning))
	}

	return c.toEntities(dr), nil
}

// toEntities maps a wire response into domain entities.
func (c *Client) toEntities(dr detectResponse) []model.Entity {
	entities := make([]model.Entity, 0, len(dr.Players)+1)

	for _, p := range dr.Players {
		entities = append(entities, model.Entity{
			ID:         p.ID,
			Kind:       model.KindPlayer,
			Team:       normalizeTeam(p.Team),
			X:          p.X,
			Y:          p.Y,
			Confidence: p.Confidence,
		})
	}

	if dr.Ball != nil {
		entities = append(entities, model.Entity{
			ID:         model.BallEntityID,
			Kind:       model.KindBall,
			Team:       model.TeamUnknown,
			X:          dr.Ball.X,
			Y:          dr.Ball.Y,
			Confidence: dr.Ball.Confidence,
		})
	}

	return entities
}

// normalizeTeam maps the model service's team strings onto the domain
// enum. Anything unrecognized is unknown.
func normalizeTeam(team string) model.Team {
	switch team {
	case string(model.TeamHome):
		return model.TeamHome
	case string(model.TeamAway):
		return model.TeamAway
	default:
		return model.TeamUnknown
	}
}
