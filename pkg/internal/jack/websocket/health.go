package websocket

import (
	"context"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

func (s *Server) runHealth(ctx context.Context, cfg serverConfig) {
	if cfg.statusInterval <= 0 || cfg.health == nil {
		return
	}
	ticker := time.NewTicker(cfg.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := protocol.NewStatus("health")
			msg.Metrics = cfg.health()
			if err := s.Broadcast(msg); err != nil {
				s.NotifyLoggers(types.DebugLevel, "Health broadcast incomplete",
					"component", s.componentMetadata,
					"event", "Health",
					"error", err,
				)
			}
		}
	}
}
