package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/rematch/internal/adapters/mq/worker"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/replay"
)

// ReplaysHandler serves replay submission and status polling.
type ReplaysHandler struct {
	svc Service
}

// NewReplaysHandler creates a new replays handler.
func NewReplaysHandler(svc Service) *ReplaysHandler {
	return &ReplaysHandler{svc: svc}
}

// submitRequest is the body of POST /replays.
type submitRequest struct {
	EventID string `json:"event_id"`
}

func (r submitRequest) validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return errors.New("missing event_id")
	}
	return nil
}

// submitResponse acknowledges an accepted replay job.
type submitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// HandleSubmit accepts a replay reconstruction request.
func (h *ReplaysHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	jobID, err := h.svc.SubmitReplay(r.Context(), req.EventID)
	switch {
	case errors.Is(err, ErrUnknownEvent):
		writeError(w, http.StatusNotFound, "unknown_event", err)
		return
	case errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{
		JobID:  jobID,
		Status: string(worker.StatusPending),
	})
}

// statusResponse is the read shape of GET /replays/{id}.
type statusResponse struct {
	JobID       string       `json:"job_id"`
	EventID     string       `json:"event_id"`
	Status      string       `json:"status"`
	Progress    float64      `json:"progress"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Error       string       `json:"error,omitempty"`
	Replay      *replayShape `json:"replay,omitempty"`
}

// replayShape is the serialized reconstruction.
type replayShape struct {
	Resolution  resolutionShape `json:"resolution"`
	SampleCount int             `json:"sample_count"`
	Degraded    bool            `json:"degraded"`
	Track       *trackShape     `json:"track,omitempty"`
}

type resolutionShape struct {
	AssetID            string  `json:"asset_id"`
	FileRef            string  `json:"file_ref"`
	OffsetSeconds      float64 `json:"offset_seconds"`
	Confidence         string  `json:"confidence"`
	LowConfidenceAsset bool    `json:"low_confidence_asset"`
}

type trackShape struct {
	FrameIntervalSeconds float64      `json:"frame_interval_seconds"`
	Frames               []frameShape `json:"frames"`
}

type frameShape struct {
	TSeconds float64                   `json:"t_seconds"`
	Entities map[string]model.Position `json:"entities"`
}

// HandleStatus reports the state of a replay job.
func (h *ReplaysHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing job id"))
		return
	}

	st, ok := h.svc.ReplayStatus(r.Context(), jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_job", errors.New("job not found"))
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(st))
}

// toStatusResponse maps a job state onto the wire shape.
func toStatusResponse(st worker.JobState) statusResponse {
	resp := statusResponse{
		JobID:       st.JobID,
		EventID:     st.EventID,
		Status:      string(st.Status),
		Progress:    st.Progress,
		SubmittedAt: st.SubmittedAt,
		Error:       st.Error,
	}

	if st.Result != nil {
		resp.Replay = toReplayShape(*st.Result)
	}
	return resp
}

func toReplayShape(res replay.Result) *replayShape {
	shape := &replayShape{
		Resolution: resolutionShape{
			AssetID:            res.Resolution.Asset.ID,
			FileRef:            res.Resolution.Asset.FileRef,
			OffsetSeconds:      res.Resolution.OffsetSeconds,
			Confidence:         string(res.Resolution.Confidence),
			LowConfidenceAsset: res.Resolution.LowConfidenceAsset,
		},
		SampleCount: res.SampleCount,
		Degraded:    res.Degraded,
	}

	if len(res.Track.Frames) > 0 {
		t := &trackShape{
			FrameIntervalSeconds: res.Track.FrameIntervalSeconds,
			Frames:               make([]frameShape, 0, len(res.Track.Frames)),
		}
		for _, f := range res.Track.Frames {
			t.Frames = append(t.Frames, frameShape{
				TSeconds: f.TSeconds,
				Entities: f.Entities,
			})
		}
		shape.Track = t
	}

	return shape
}
