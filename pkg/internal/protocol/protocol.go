// Package protocol defines the JSON envelopes exchanged with stream consumers.
// Every message is an object with a "type" discriminator. Timestamps are float
// seconds since the Unix epoch.
package protocol

import (
	"errors"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// Outbound message types.
const (
	TypeSample          = "sample"
	TypeStatus          = "status"
	TypeResult          = "result"
	TypeError           = "error"
	TypeCountdown       = "countdown"
	TypeStimulus        = "stimulus"
	TypeCaptureComplete = "capture_complete"
	TypeCaptureFailed   = "capture_failed"
	TypeSessionResult   = "session_result"
)

// Inbound message types.
const (
	TypeAnalyze      = "analyze"
	TypeStartCapture = "start_capture"
	TypeStartSession = "start_session"
	TypeReset        = "reset"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrMalformed      = errors.New("malformed message")
)

// WireSample is the JSON form of a Sample.
type WireSample struct {
	Sequence  uint8     `json:"sequence"`
	Timestamp float64   `json:"timestamp"`
	Channels  []float64 `json:"channels"`
	Accel     []float64 `json:"accel,omitempty"`
}

type SampleMessage struct {
	Type string `json:"type"`
	WireSample
}

type StatusMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Connected *bool  `json:"connected,omitempty"`
	State     string `json:"state,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Device    string `json:"device,omitempty"`
	Metrics   any    `json:"metrics,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
}

// ResultMessage carries one analysis result. The embedded result supplies
// perChannel and composite.
type ResultMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Total     int    `json:"total,omitempty"`
	types.AnalysisResult
	Metadata map[string]any `json:"metadata,omitempty"`
}

type CountdownMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Remaining int    `json:"remaining"`
}

type StimulusMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
}

type CaptureCompleteMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Samples   int    `json:"samples"`
}

type CaptureFailedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Samples   int    `json:"samples"`
	Message   string `json:"message"`
}

type SessionResultMessage struct {
	Type      string                 `json:"type"`
	SessionID string                 `json:"sessionId,omitempty"`
	Winner    int                    `json:"winner"`
	Scores    []float64              `json:"scores"`
	Results   []types.AnalysisResult `json:"results"`
}

// Request is a decoded inbound message.
type Request struct {
	Type     string
	Buffer   []types.Sample
	Window   time.Duration
	Metadata map[string]any
	Stimuli  int
}

// Timestamp converts t to float seconds since the epoch.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// TimeFrom converts float epoch seconds back to a time.
func TimeFrom(sec float64) time.Time {
	return time.Unix(0, int64(sec*1e9))
}
