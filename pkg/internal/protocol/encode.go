package protocol

import (
	"encoding/json"

	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// Marshal encodes any envelope.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func NewSample(s types.Sample) SampleMessage {
	msg := SampleMessage{
		Type: TypeSample,
		WireSample: WireSample{
			Sequence:  s.Sequence,
			Timestamp: Timestamp(s.Timestamp),
			Channels:  s.Channels[:],
		},
	}
	if s.Accel != ([3]float64{}) {
		msg.Accel = s.Accel[:]
	}
	return msg
}

// EncodeSample is the hot-path encoder used by per-connection relays.
func EncodeSample(s types.Sample) ([]byte, error) {
	return json.Marshal(NewSample(s))
}

func NewStatus(message string) StatusMessage {
	return StatusMessage{Type: TypeStatus, Message: message}
}

// NewDeviceStatus reports the device link state.
func NewDeviceStatus(device string, connected bool, message string) StatusMessage {
	return StatusMessage{Type: TypeStatus, Message: message, Device: device, Connected: &connected}
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

func NewResult(res types.AnalysisResult, metadata map[string]any) ResultMessage {
	return ResultMessage{Type: TypeResult, AnalysisResult: res, Metadata: metadata}
}

// FromEvent maps a session event to its outbound envelope.
func FromEvent(ev session.Event) any {
	switch ev.Kind {
	case session.EventCountdown:
		return CountdownMessage{Type: TypeCountdown, SessionID: ev.SessionID, Remaining: ev.Remaining}
	case session.EventStimulus:
		return StimulusMessage{Type: TypeStimulus, SessionID: ev.SessionID, Index: ev.Index, Total: ev.Total}
	case session.EventCaptureComplete:
		return CaptureCompleteMessage{
			Type:      TypeCaptureComplete,
			SessionID: ev.SessionID,
			Index:     ev.Index,
			Total:     ev.Total,
			Samples:   ev.Samples,
		}
	case session.EventCaptureFailed:
		return CaptureFailedMessage{
			Type:      TypeCaptureFailed,
			SessionID: ev.SessionID,
			Index:     ev.Index,
			Total:     ev.Total,
			Samples:   ev.Samples,
			Message:   ev.Message,
		}
	case session.EventResult:
		msg := ResultMessage{Type: TypeResult, SessionID: ev.SessionID, Total: ev.Total}
		if ev.Result != nil {
			msg.AnalysisResult = *ev.Result
		}
		return msg
	case session.EventSessionResult:
		msg := SessionResultMessage{Type: TypeSessionResult, SessionID: ev.SessionID, Winner: -1}
		if ev.Outcome != nil {
			msg.Winner = ev.Outcome.Winner
			msg.Scores = ev.Outcome.Scores
			msg.Results = ev.Outcome.Results
		}
		return msg
	default:
		return StatusMessage{
			Type:      TypeStatus,
			Message:   ev.Message,
			State:     ev.State.String(),
			SessionID: ev.SessionID,
		}
	}
}
