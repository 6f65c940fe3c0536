package builder

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type SessionConfig = session.Config

type SessionController = session.Controller

type SessionEvent = session.Event

type SessionEmitter = session.Emitter

// DefaultSessionConfig returns the standard countdown, window, gap and stimulus count.
func DefaultSessionConfig() session.Config {
	return session.DefaultConfig()
}

// NewSessionController builds a capture state machine over the engine and
// drives it from feed. Run must be called to start it.
func NewSessionController(cfg session.Config, engine session.Analyzer, feed session.SampleFeed, options ...types.Option[*session.Controller]) *session.Controller {
	return session.NewController(session.NewMachine(cfg, engine), feed, options...)
}

// SessionWithEmitter sets the receiver of session events.
func SessionWithEmitter(emit session.Emitter) types.Option[*session.Controller] {
	return session.WithEmitter(emit)
}

// SessionWithEmitters fans events out to each emitter in order.
func SessionWithEmitters(emitters ...session.Emitter) types.Option[*session.Controller] {
	return session.WithEmitter(func(ev session.Event) {
		for _, emit := range emitters {
			if emit != nil {
				emit(ev)
			}
		}
	})
}

// SessionWithClock replaces time.Now.
func SessionWithClock(clock func() time.Time) types.Option[*session.Controller] {
	return session.WithClock(clock)
}

// SessionWithMeter counts completed and failed captures.
func SessionWithMeter(m types.Meter) types.Option[*session.Controller] {
	return session.WithMeter(m)
}

// SessionWithLogger attaches one or more loggers to the controller.
func SessionWithLogger(loggers ...types.Logger) types.Option[*session.Controller] {
	return session.WithLogger(loggers...)
}

// SessionWithComponentMetadata sets the name and ID for the controller.
func SessionWithComponentMetadata(name, id string) types.Option[*session.Controller] {
	return session.WithComponentMetadata(name, id)
}

// Session event kinds.
const (
	SessionEventStatus          = session.EventStatus
	SessionEventCountdown       = session.EventCountdown
	SessionEventStimulus        = session.EventStimulus
	SessionEventCaptureComplete = session.EventCaptureComplete
	SessionEventResult          = session.EventResult
	SessionEventSessionResult   = session.EventSessionResult
	SessionEventCaptureFailed   = session.EventCaptureFailed
)
