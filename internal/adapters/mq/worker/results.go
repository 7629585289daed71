package worker

import (
	"sync"
	"time"

	"github.com/okian/rematch/internal/domain/replay"
)

// Default results store configuration constants.
const (
	defaultResultCapacity = 512
)

// Status is the lifecycle state of a replay job.
type Status string

// Job lifecycle states.
const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// JobState is everything the API can report about one job.
type JobState struct {
	JobID       string
	EventID     string
	Status      Status
	Progress    float64
	SubmittedAt time.Time
	CompletedAt time.Time

	// Result is set once the job is ready. On soft failures it still
	// carries the resolution so the caller can offer plain playback.
	Result *replay.Result

	// Error is the failure description for failed jobs.
	Error string
}

// Results is a bounded in-memory store of job states. When full, the
// oldest finished job is evicted to make room; running jobs are never
// evicted.
type Results struct {
	mu       sync.RWMutex
	capacity int
	states   map[string]*JobState
	order    []string
}

// NewResults creates a Results store with the given capacity.
func NewResults(capacity int) *Results {
	if capacity < 1 {
		capacity = defaultResultCapacity
	}
	return &Results{
		capacity: capacity,
		states:   make(map[string]*JobState, capacity),
	}
}

// Track registers a submitted job as pending.
func (r *Results) Track(jobID, eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()
	r.states[jobID] = &JobState{
		JobID:       jobID,
		EventID:     eventID,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}
	r.order = append(r.order, jobID)
}

// SetRunning marks a job as picked up by a worker.
func (r *Results) SetRunning(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[jobID]; ok {
		st.Status = StatusRunning
	}
}

// SetProgress publishes sampling progress in [0,1].
func (r *Results) SetProgress(jobID string, f float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[jobID]; ok {
		st.Progress = f
	}
}

// SetReady stores a completed reconstruction.
func (r *Results) SetReady(jobID string, res replay.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[jobID]; ok {
		st.Status = StatusReady
		st.Progress = 1
		st.Result = &res
		st.CompletedAt = time.Now()
	}
}

// SetFailed stores a failure. A non-nil partial result (resolution without
// a track) is kept alongside the error.
func (r *Results) SetFailed(jobID, errMsg string, partial *replay.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[jobID]; ok {
		st.Status = StatusFailed
		st.Error = errMsg
		st.Result = partial
		st.CompletedAt = time.Now()
	}
}

// Get returns the state of a job.
func (r *Results) Get(jobID string) (JobState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[jobID]
	if !ok {
		return JobState{}, false
	}
	return *st, true
}

// Len returns the number of tracked jobs.
func (r *Results) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

// evictLocked drops the oldest finished job when at capacity. Caller
// holds the write lock.
func (r *Results) evictLocked() {
	if len(r.states) < r.capacity {
		return
	}

	for i, id := range r.order {
		st, ok := r.states[id]
		if !ok {
			continue
		}
		if st.Status == StatusReady || st.Status == StatusFailed {
			delete(r.states, id)
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
