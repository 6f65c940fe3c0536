package websocket

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

func WithLogger(loggers ...types.Logger) types.Option[*Server] {
	return func(s *Server) { s.ConnectLogger(loggers...) }
}

func WithAddress(address string) types.Option[*Server] {
	return func(s *Server) { s.SetAddress(address) }
}

func WithEndpoint(path string) types.Option[*Server] {
	return func(s *Server) { s.SetEndpoint(path) }
}

func WithHeader(key, value string) types.Option[*Server] {
	return func(s *Server) { s.AddHeader(key, value) }
}

func WithAllowedOrigins(origins ...string) types.Option[*Server] {
	return func(s *Server) { s.SetAllowedOrigins(origins...) }
}

func WithReadLimit(limit int64) types.Option[*Server] {
	return func(s *Server) { s.SetReadLimit(limit) }
}

func WithWriteTimeout(timeout time.Duration) types.Option[*Server] {
	return func(s *Server) { s.SetWriteTimeout(timeout) }
}

func WithIdleTimeout(timeout time.Duration) types.Option[*Server] {
	return func(s *Server) { s.SetIdleTimeout(timeout) }
}

func WithSendBuffer(size int) types.Option[*Server] {
	return func(s *Server) { s.SetSendBuffer(size) }
}

func WithSampleBuffer(size int) types.Option[*Server] {
	return func(s *Server) { s.SetSampleBuffer(size) }
}

func WithMaxConnections(max int) types.Option[*Server] {
	return func(s *Server) { s.SetMaxConnections(max) }
}

func WithStatusInterval(interval time.Duration) types.Option[*Server] {
	return func(s *Server) { s.SetStatusInterval(interval) }
}

func WithTLS(cfg types.TLSConfig) types.Option[*Server] {
	return func(s *Server) { s.SetTLSConfig(cfg) }
}

func WithHandler(h Handler) types.Option[*Server] {
	return func(s *Server) { s.SetHandler(h) }
}

func WithHealthSource(fn func() any) types.Option[*Server] {
	return func(s *Server) { s.SetHealthSource(fn) }
}

func WithMeter(m types.Meter) types.Option[*Server] {
	return func(s *Server) { s.SetMeter(m) }
}

func WithComponentMetadata(name, id string) types.Option[*Server] {
	return func(s *Server) { s.SetComponentMetadata(name, id) }
}
