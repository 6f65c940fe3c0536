package session

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// EventKind names an outbound session event.
type EventKind string

const (
	EventStatus          EventKind = "status"
	EventCountdown       EventKind = "countdown"
	EventStimulus        EventKind = "stimulus"
	EventCaptureComplete EventKind = "capture_complete"
	EventResult          EventKind = "result"
	EventSessionResult   EventKind = "session_result"
	EventCaptureFailed   EventKind = "capture_failed"
)

// Event is one observable transition of the session.
type Event struct {
	Kind      EventKind
	SessionID string
	Mode      Mode
	State     State
	At        time.Time
	Index     int
	Total     int
	Remaining int
	Samples   int
	Message   string
	Result    *types.AnalysisResult
	Outcome   *Outcome
}

// Outcome summarizes a finished multi-stimulus session.
type Outcome struct {
	SessionID string
	Results   []types.AnalysisResult
	Scores    []float64
	Winner    int
}

// Emitter receives events in the order they occur.
type Emitter func(Event)

// Snapshot is a read-only view of the machine for status queries.
type Snapshot struct {
	SessionID string
	Mode      Mode
	State     State
	Index     int
	Total     int
	Remaining int
	Deadline  time.Time
	Buffered  int
}
