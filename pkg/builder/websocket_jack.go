package builder

import (
	"time"

	websocketJack "github.com/joeydtaylor/synapse/pkg/internal/jack/websocket"
	"github.com/joeydtaylor/synapse/pkg/internal/streambus"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type WebSocketServer = websocketJack.Server

type WebSocketHandler = websocketJack.Handler

type WebSocketHandlerFunc = websocketJack.HandlerFunc

type TLSConfig = types.TLSConfig

// NewWebSocketServer creates the consumer-facing server relaying samples from bus.
func NewWebSocketServer(bus *streambus.Bus, options ...types.Option[*websocketJack.Server]) *websocketJack.Server {
	return websocketJack.NewServer(bus, options...)
}

// WebSocketServerWithLogger attaches one or more loggers to the server.
func WebSocketServerWithLogger(loggers ...types.Logger) types.Option[*websocketJack.Server] {
	return websocketJack.WithLogger(loggers...)
}

// WebSocketServerWithAddress sets the listen address (e.g., ":8080").
func WebSocketServerWithAddress(address string) types.Option[*websocketJack.Server] {
	return websocketJack.WithAddress(address)
}

// WebSocketServerWithEndpoint sets the WebSocket path (e.g., "/ws").
func WebSocketServerWithEndpoint(endpoint string) types.Option[*websocketJack.Server] {
	return websocketJack.WithEndpoint(endpoint)
}

// WebSocketServerWithHeader adds a response header to the handshake.
func WebSocketServerWithHeader(key, value string) types.Option[*websocketJack.Server] {
	return websocketJack.WithHeader(key, value)
}

// WebSocketServerWithAllowedOrigins sets acceptable Origin patterns.
func WebSocketServerWithAllowedOrigins(origins ...string) types.Option[*websocketJack.Server] {
	return websocketJack.WithAllowedOrigins(origins...)
}

// WebSocketServerWithReadLimit sets the maximum inbound message size.
func WebSocketServerWithReadLimit(limit int64) types.Option[*websocketJack.Server] {
	return websocketJack.WithReadLimit(limit)
}

// WebSocketServerWithWriteTimeout sets the write timeout.
func WebSocketServerWithWriteTimeout(timeout time.Duration) types.Option[*websocketJack.Server] {
	return websocketJack.WithWriteTimeout(timeout)
}

// WebSocketServerWithIdleTimeout sets the read idle timeout.
func WebSocketServerWithIdleTimeout(timeout time.Duration) types.Option[*websocketJack.Server] {
	return websocketJack.WithIdleTimeout(timeout)
}

// WebSocketServerWithSendBuffer sets the control outbox size per connection.
func WebSocketServerWithSendBuffer(size int) types.Option[*websocketJack.Server] {
	return websocketJack.WithSendBuffer(size)
}

// WebSocketServerWithSampleBuffer sets the bus subscription capacity per connection.
func WebSocketServerWithSampleBuffer(size int) types.Option[*websocketJack.Server] {
	return websocketJack.WithSampleBuffer(size)
}

// WebSocketServerWithMaxConnections caps concurrent connections.
func WebSocketServerWithMaxConnections(max int) types.Option[*websocketJack.Server] {
	return websocketJack.WithMaxConnections(max)
}

// WebSocketServerWithStatusInterval sets the health broadcast period; zero disables it.
func WebSocketServerWithStatusInterval(interval time.Duration) types.Option[*websocketJack.Server] {
	return websocketJack.WithStatusInterval(interval)
}

// WebSocketServerWithTLS configures TLS for the listener.
func WebSocketServerWithTLS(cfg types.TLSConfig) types.Option[*websocketJack.Server] {
	return websocketJack.WithTLS(cfg)
}

// WebSocketServerWithHandler sets the inbound request handler.
func WebSocketServerWithHandler(h websocketJack.Handler) types.Option[*websocketJack.Server] {
	return websocketJack.WithHandler(h)
}

// WebSocketServerWithHealthSource sets the metrics payload of health broadcasts.
func WebSocketServerWithHealthSource(fn func() any) types.Option[*websocketJack.Server] {
	return websocketJack.WithHealthSource(fn)
}

// WebSocketServerWithMeter counts consumer send errors.
func WebSocketServerWithMeter(m types.Meter) types.Option[*websocketJack.Server] {
	return websocketJack.WithMeter(m)
}

// WebSocketServerWithComponentMetadata sets the name and ID for the server.
func WebSocketServerWithComponentMetadata(name, id string) types.Option[*websocketJack.Server] {
	return websocketJack.WithComponentMetadata(name, id)
}
