package websocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"nhooyr.io/websocket"
)

// Serve listens until ctx ends, then closes every consumer connection.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.serverMu.Lock()
	defer s.serverMu.Unlock()

	if s.server != nil {
		return fmt.Errorf("server already started")
	}

	cfg := s.snapshotConfig()
	if cfg.tlsConfigErr != nil {
		return cfg.tlsConfigErr
	}
	if cfg.endpoint == "" {
		return errors.New("endpoint not configured")
	}

	s.configFrozen.Store(true)

	s.server = &http.Server{
		Addr:      cfg.address,
		Handler:   s.buildHandler(ctx, cfg),
		TLSConfig: cfg.tlsConfig,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.NotifyLoggers(
			types.InfoLevel,
			"Serve: starting WebSocket server",
			"component", s.componentMetadata,
			"event", "ServeStart",
			"tls", cfg.tlsConfig != nil,
			"address", cfg.address,
			"endpoint", cfg.endpoint,
		)
		var err error
		if cfg.tlsConfig != nil {
			err = s.server.ListenAndServeTLS("", "")
		} else {
			err = s.server.ListenAndServe()
		}
		errCh <- err
	}()

	defer s.closeAllConnections("server shutting down")
	go s.runHealth(ctx, cfg)

	select {
	case <-ctx.Done():
		s.NotifyLoggers(
			types.WarnLevel,
			"Serve: context canceled, shutting down",
			"component", s.componentMetadata,
			"event", "ServeStop",
			"result", "CANCELLED",
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			s.NotifyLoggers(
				types.ErrorLevel,
				"Serve: server error",
				"component", s.componentMetadata,
				"event", "ServeError",
				"result", "FAILURE",
				"error", err,
			)
			return err
		}
		return nil
	}
}

func (s *Server) buildHandler(baseCtx context.Context, cfg serverConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(cfg.endpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		if cfg.maxConnections > 0 && s.connectionCount() >= cfg.maxConnections {
			http.Error(w, "Too Many Connections", http.StatusServiceUnavailable)
			return
		}

		for key, val := range cfg.headers {
			w.Header().Set(key, val)
		}

		acceptOptions := &websocket.AcceptOptions{}
		if len(cfg.allowedOrigins) > 0 {
			acceptOptions.OriginPatterns = cfg.allowedOrigins
		}

		conn, err := websocket.Accept(w, r, acceptOptions)
		if err != nil {
			s.NotifyLoggers(
				types.ErrorLevel,
				"Accept: error",
				"component", s.componentMetadata,
				"event", "AcceptError",
				"result", "FAILURE",
				"error", err,
			)
			return
		}

		if cfg.readLimit > 0 {
			conn.SetReadLimit(cfg.readLimit)
		}

		wsConn, err := s.addConn(conn, cfg)
		if err != nil {
			_ = conn.Close(websocket.StatusPolicyViolation, err.Error())
			s.NotifyLoggers(
				types.WarnLevel,
				"Accept: rejected connection",
				"component", s.componentMetadata,
				"event", "AcceptReject",
				"result", "FAILURE",
				"error", err,
			)
			return
		}

		s.NotifyLoggers(
			types.InfoLevel,
			"Connection accepted",
			"component", s.componentMetadata,
			"event", "ConnectionAccepted",
			"result", "SUCCESS",
			"conn_id", wsConn.id,
			"remote", r.RemoteAddr,
		)

		go s.runConn(baseCtx, cfg, wsConn, r.RemoteAddr)
	})

	return mux
}

func (s *Server) runConn(ctx context.Context, cfg serverConfig, conn *wsConn, remote string) {
	defer s.dropConn(conn)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.greet(conn)

	go func() {
		defer cancel()
		if err := s.writeLoop(connCtx, cfg, conn); err != nil && !conn.isClosed() {
			s.countSendError()
			s.NotifyLoggers(
				types.WarnLevel,
				"WriteLoop error",
				"component", s.componentMetadata,
				"event", "WriteLoop",
				"result", "FAILURE",
				"conn_id", conn.id,
				"error", err,
			)
		}
	}()

	if err := s.readLoop(connCtx, cfg, conn); err != nil {
		s.NotifyLoggers(
			types.WarnLevel,
			"ReadLoop error",
			"component", s.componentMetadata,
			"event", "ReadLoop",
			"result", "FAILURE",
			"conn_id", conn.id,
			"error", err,
		)
	}

	conn.close(websocket.StatusNormalClosure, "connection closed")
	s.NotifyLoggers(
		types.InfoLevel,
		"Connection closed",
		"component", s.componentMetadata,
		"event", "ConnectionClosed",
		"conn_id", conn.id,
		"remote", remote,
	)
}

func (s *Server) greet(conn *wsConn) {
	s.reply(conn, protocol.NewStatus("connected"))
	if st := s.deviceStatus(); st != nil {
		s.reply(conn, *st)
	}
}

func (s *Server) readLoop(ctx context.Context, cfg serverConfig, conn *wsConn) error {
	for {
		readCtx := ctx
		var cancel context.CancelFunc
		if cfg.idleTimeout > 0 {
			readCtx, cancel = context.WithTimeout(ctx, cfg.idleTimeout)
		}
		_, payload, err := conn.conn.Read(readCtx)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			return s.handleReadError(err)
		}

		req, err := protocol.Decode(payload)
		if err != nil {
			s.NotifyLoggers(
				types.WarnLevel,
				"ReadLoop: decode error",
				"component", s.componentMetadata,
				"event", "Decode",
				"result", "FAILURE",
				"conn_id", conn.id,
				"error", err,
			)
			s.reply(conn, protocol.NewError(err.Error()))
			continue
		}

		reply, err := cfg.handler.Handle(ctx, req)
		if err != nil {
			s.NotifyLoggers(
				types.WarnLevel,
				"ReadLoop: request failed",
				"component", s.componentMetadata,
				"event", "Request",
				"result", "FAILURE",
				"conn_id", conn.id,
				"request", req.Type,
				"error", err,
			)
			msg := protocol.NewError(err.Error())
			msg.Request = req.Type
			s.reply(conn, msg)
			continue
		}
		if reply != nil {
			s.reply(conn, reply)
		}
	}
}

func (s *Server) handleReadError(err error) error {
	if err == nil {
		return nil
	}
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// writeLoop is the only writer on the connection. Control messages and samples
// share it; samples come from the connection's own subscription.
func (s *Server) writeLoop(ctx context.Context, cfg serverConfig, conn *wsConn) error {
	var (
		ready   <-chan struct{}
		scratch []types.Sample
	)
	if conn.sub != nil {
		ready = conn.sub.Ready()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-conn.send:
			if !ok {
				return nil
			}
			if err := s.write(ctx, cfg, conn, payload); err != nil {
				return err
			}
		case <-ready:
			scratch = conn.sub.Drain(scratch[:0])
			for _, sample := range scratch {
				payload, err := protocol.EncodeSample(sample)
				if err != nil {
					return err
				}
				if err := s.write(ctx, cfg, conn, payload); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Server) write(ctx context.Context, cfg serverConfig, conn *wsConn, payload []byte) error {
	writeCtx := ctx
	var cancel context.CancelFunc
	if cfg.writeTimeout > 0 {
		writeCtx, cancel = context.WithTimeout(ctx, cfg.writeTimeout)
	}
	err := conn.conn.Write(writeCtx, websocket.MessageText, payload)
	if cancel != nil {
		cancel()
	}
	return err
}
