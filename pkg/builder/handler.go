package builder

import (
	"context"
	"fmt"

	websocketJack "github.com/joeydtaylor/synapse/pkg/internal/jack/websocket"
	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// SessionControl is the part of a session controller driven by consumer requests.
type SessionControl interface {
	StartCapture(ctx context.Context) error
	StartSession(ctx context.Context, n int) error
	Reset(ctx context.Context) error
}

// NewRequestHandler answers analyze requests with engine and routes capture
// controls to ctrl. Control requests reply with nothing; their progress is
// broadcast as session events. A nil ctrl rejects control requests.
func NewRequestHandler(engine session.Analyzer, ctrl SessionControl) websocketJack.Handler {
	return websocketJack.HandlerFunc(func(ctx context.Context, req protocol.Request) (any, error) {
		switch req.Type {
		case protocol.TypeAnalyze:
			res, err := engine.Analyze(types.NewFrozenBuffer(req.Buffer, req.Window))
			if err != nil {
				return nil, err
			}
			return protocol.NewResult(res, req.Metadata), nil
		}

		if ctrl == nil {
			return nil, fmt.Errorf("%s: capture sessions are disabled", req.Type)
		}
		switch req.Type {
		case protocol.TypeStartCapture:
			return nil, ctrl.StartCapture(ctx)
		case protocol.TypeStartSession:
			return nil, ctrl.StartSession(ctx, req.Stimuli)
		case protocol.TypeReset:
			return nil, ctrl.Reset(ctx)
		default:
			return nil, fmt.Errorf("%w: %q", protocol.ErrUnknownMessage, req.Type)
		}
	})
}
