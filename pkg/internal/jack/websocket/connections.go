package websocket

import (
	"errors"
	"sync"

	"github.com/joeydtaylor/synapse/pkg/internal/streambus"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
	"nhooyr.io/websocket"
)

var errMaxConnections = errors.New("max connections reached")

type wsConn struct {
	id   string
	conn *websocket.Conn
	sub  *streambus.Subscription
	send chan []byte
	done chan struct{}

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn, sub *streambus.Subscription, id string, buffer int) *wsConn {
	if buffer <= 0 {
		buffer = 128
	}
	return &wsConn{
		id:   id,
		conn: conn,
		sub:  sub,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// enqueue places a control message on the outbox without blocking.
func (c *wsConn) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *wsConn) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *wsConn) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.done)
		close(c.send)
		c.mu.Unlock()
		if c.sub != nil {
			c.sub.Close()
		}
		_ = c.conn.Close(code, reason)
	})
}

func (s *Server) addConn(conn *websocket.Conn, cfg serverConfig) (*wsConn, error) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()

	if s.conns == nil {
		s.conns = make(map[*websocket.Conn]*wsConn)
	}
	if cfg.maxConnections > 0 && len(s.conns) >= cfg.maxConnections {
		return nil, errMaxConnections
	}

	id := utils.GenerateID()
	var sub *streambus.Subscription
	if s.bus != nil {
		var err error
		sub, err = s.bus.Subscribe(id, cfg.sampleBuffer)
		if err != nil {
			return nil, err
		}
	}

	wc := newWSConn(conn, sub, id, cfg.sendBuffer)
	s.conns[conn] = wc
	return wc, nil
}

func (s *Server) dropConn(conn *wsConn) {
	s.connsMu.Lock()
	delete(s.conns, conn.conn)
	s.connsMu.Unlock()
}

func (s *Server) snapshotConns() []*wsConn {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()

	if len(s.conns) == 0 {
		return nil
	}

	out := make([]*wsConn, 0, len(s.conns))
	for _, conn := range s.conns {
		out = append(out, conn)
	}
	return out
}

func (s *Server) connectionCount() int {
	s.connsMu.Lock()
	count := len(s.conns)
	s.connsMu.Unlock()
	return count
}

func (s *Server) closeAllConnections(reason string) {
	for _, conn := range s.snapshotConns() {
		if conn == nil {
			continue
		}
		conn.close(websocket.StatusGoingAway, reason)
	}
}
