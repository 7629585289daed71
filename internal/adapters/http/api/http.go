// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/rematch/internal/adapters/mq/worker"
)

// Service bundles what the handlers need from the application layer.
type Service interface {
	// SubmitReplay queues a reconstruction for the event and returns the
	// job id for status polling.
	SubmitReplay(ctx context.Context, eventID string) (string, error)

	// ReplayStatus returns the state of a previously submitted job.
	ReplayStatus(ctx context.Context, jobID string) (worker.JobState, bool)

	// Stats reports queue and worker counters.
	Stats(ctx context.Context) Stats
}

// Stats is the read shape for GET /stats.
type Stats struct {
	QueueSize     int `json:"queue_size"`
	QueueCapacity int `json:"queue_capacity"`
	WorkerCount   int `json:"worker_count"`
	TrackedJobs   int `json:"tracked_jobs"`
}

// Server wires HTTP routes for the replay API.
type Server struct {
	replaysHandler *ReplaysHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(svc Service) *Server {
	return &Server{
		replaysHandler: NewReplaysHandler(svc),
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(svc),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Post("/replays", MetricsMiddleware(s.replaysHandler.HandleSubmit, "replays"))
	r.Get("/replays/{id}", MetricsMiddleware(s.replaysHandler.HandleStatus, "replay_status"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
