package websocket

import (
	"fmt"

	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"nhooyr.io/websocket"
)

// Broadcast sends one envelope to every connection. A consumer whose outbox is
// full is dropped; the others still receive the message.
func (s *Server) Broadcast(msg any) error {
	if st, ok := msg.(protocol.StatusMessage); ok && st.Device != "" {
		s.lastDeviceMu.Lock()
		s.lastDevice = &st
		s.lastDeviceMu.Unlock()
	}

	conns := s.snapshotConns()
	if len(conns) == 0 {
		return nil
	}

	payload, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}

	dropped := 0
	for _, conn := range conns {
		if conn == nil {
			continue
		}
		if !conn.enqueue(payload) {
			dropped++
			s.dropSlowConsumer(conn)
		}
	}

	if dropped > 0 {
		return fmt.Errorf("broadcast dropped %d connection(s)", dropped)
	}
	return nil
}

// EmitSessionEvent is a session.Emitter that broadcasts each event.
func (s *Server) EmitSessionEvent(ev session.Event) {
	if err := s.Broadcast(protocol.FromEvent(ev)); err != nil {
		s.NotifyLoggers(types.WarnLevel, "Broadcast: session event",
			"component", s.componentMetadata,
			"event", "Broadcast",
			"result", "FAILURE",
			"kind", string(ev.Kind),
			"error", err,
		)
	}
}

// EmitDeviceStatus reports a device link change to every consumer and remembers
// it for consumers that connect later.
func (s *Server) EmitDeviceStatus(device string, connected bool, message string) {
	if err := s.Broadcast(protocol.NewDeviceStatus(device, connected, message)); err != nil {
		s.NotifyLoggers(types.WarnLevel, "Broadcast: device status",
			"component", s.componentMetadata,
			"event", "Broadcast",
			"result", "FAILURE",
			"error", err,
		)
	}
}

// reply queues msg for one consumer. A message that cannot be encoded is
// answered with an error envelope so the requester is never left waiting.
func (s *Server) reply(conn *wsConn, msg any) {
	payload, err := protocol.Marshal(msg)
	if err != nil {
		s.NotifyLoggers(types.ErrorLevel, "Reply: encode error",
			"component", s.componentMetadata,
			"event", "Encode",
			"result", "FAILURE",
			"conn_id", conn.id,
			"error", err,
		)
		payload, err = protocol.Marshal(protocol.NewError("encode reply: " + err.Error()))
		if err != nil {
			return
		}
	}
	if !conn.enqueue(payload) {
		s.dropSlowConsumer(conn)
	}
}

func (s *Server) dropSlowConsumer(conn *wsConn) {
	if conn.isClosed() {
		return
	}
	s.countSendError()
	s.NotifyLoggers(types.WarnLevel, "Consumer outbox full, dropping connection",
		"component", s.componentMetadata,
		"event", "DropConsumer",
		"result", "FAILURE",
		"conn_id", conn.id,
	)
	// The close handshake can wait on the peer; callers include the session loop.
	go conn.close(websocket.StatusPolicyViolation, "consumer too slow")
}

func (s *Server) countSendError() {
	s.configLock.Lock()
	m := s.meter
	s.configLock.Unlock()
	if m != nil {
		m.IncrementCount(types.MetricConsumerSendErrors)
	}
}

func (s *Server) deviceStatus() *protocol.StatusMessage {
	s.lastDeviceMu.Lock()
	defer s.lastDeviceMu.Unlock()
	return s.lastDevice
}
