// Package model contains domain models passed between layers.
package model

// Half identifies the period of the match a clock position or a video
// asset belongs to. Video assets additionally use HalfFull for files that
// cover the whole match.
type Half string

const (
	HalfUnknown Half = "unknown"
	HalfFirst   Half = "first"
	HalfSecond  Half = "second"
	HalfFull    Half = "full"
)

// Team identifies which side a detected player belongs to.
type Team string

const (
	TeamHome    Team = "home"
	TeamAway    Team = "away"
	TeamUnknown Team = "unknown"
)

// EntityKind distinguishes detected players from the ball.
type EntityKind string

const (
	KindPlayer EntityKind = "player"
	KindBall   EntityKind = "ball"
)

// BallEntityID is the fixed identity of the ball across detection frames.
const BallEntityID = "ball"

// Confidence is the three-tier trust level of a timeline resolution.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MatchClock is a position on the continuous match clock. Minute does not
// reset at half time: a second-half kickoff event carries Minute >= 45.
// Stoppage-time events may carry Minute >= 45 with Half still HalfFirst.
type MatchClock struct {
	Minute int  `json:"minute"`
	Second int  `json:"second"`
	Half   Half `json:"half"`
}

// VideoAsset describes one physical video file and the span of match time
// it is believed to cover. DeclaredStartMinute and DeclaredEndMinute come
// from import metadata and may be wrong; DurationSeconds is measured from
// the file and is authoritative.
type VideoAsset struct {
	ID                  string  `json:"id"`
	MatchID             string  `json:"match_id"`
	FileRef             string  `json:"file_ref"`
	DeclaredStartMinute int     `json:"declared_start_minute"`
	DeclaredEndMinute   int     `json:"declared_end_minute"`
	DurationSeconds     float64 `json:"duration_seconds"`
	HalfLabel           Half    `json:"half_label"`
}

// EffectiveEndMinute is the end of the asset's coverage derived from the
// authoritative duration. DeclaredEndMinute must never be trusted over it.
func (a VideoAsset) EffectiveEndMinute() float64 {
	return float64(a.DeclaredStartMinute) + a.DurationSeconds/60
}

// Event is a detected match event as supplied by the persistence layer.
// Read-only to the replay core: corrections are derived values, never
// written back.
type Event struct {
	ID      string     `json:"id"`
	MatchID string     `json:"match_id"`
	Clock   MatchClock `json:"clock"`

	// RecordedOffsetSeconds is the stored intra-asset playback offset.
	// Nil when absent; may be stale or out of range when present.
	RecordedOffsetSeconds *float64 `json:"recorded_offset_seconds,omitempty"`
}

// Entity is one detected object in a single frame, positioned in the
// normalized 0-100 field-percentage space.
type Entity struct {
	ID         string     `json:"id"`
	Kind       EntityKind `json:"kind"`
	Team       Team       `json:"team"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Confidence float64    `json:"confidence"`
}

// DetectionFrame is one sampled video instant with detected entity
// positions. Immutable once created.
type DetectionFrame struct {
	SampleTimeSeconds float64  `json:"sample_time_seconds"`
	Entities          []Entity `json:"entities"`
}

// Position is an entity position in the normalized field space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrackFrame is one frame of the dense animation track.
type TrackFrame struct {
	TSeconds float64             `json:"t_seconds"`
	Entities map[string]Position `json:"entities"`
}

// AnimationTrack is the dense, uniformly time-stepped sequence of entity
// positions driving a smooth visual replay. FrameIntervalSeconds is zero
// for degraded tracks built from fewer than two detection frames, whose
// frames keep their original irregular spacing.
type AnimationTrack struct {
	FrameIntervalSeconds float64      `json:"frame_interval_seconds"`
	Frames               []TrackFrame `json:"frames"`
}
