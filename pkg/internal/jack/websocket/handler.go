package websocket

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
)

// Handler serves decoded inbound requests. A non-nil reply goes back to the
// requesting connection only; an error becomes an error envelope for it.
type Handler interface {
	Handle(ctx context.Context, req protocol.Request) (reply any, err error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req protocol.Request) (any, error)

func (f HandlerFunc) Handle(ctx context.Context, req protocol.Request) (any, error) {
	return f(ctx, req)
}

type rejectAll struct{}

func (rejectAll) Handle(_ context.Context, req protocol.Request) (any, error) {
	return nil, fmt.Errorf("no handler for %q", req.Type)
}
