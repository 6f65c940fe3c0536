package websocket

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// requireNotFrozen panics when a setter runs after Start.
func (s *Server) requireNotFrozen(action string) {
	if s.isFrozen() {
		panic(fmt.Sprintf("websocket jack %s: %s called after Start", s.componentMetadata.ID, action))
	}
}

func (s *Server) SetAddress(address string) {
	s.requireNotFrozen("SetAddress")
	s.configLock.Lock()
	s.address = strings.TrimSpace(address)
	s.configLock.Unlock()
}

func (s *Server) SetEndpoint(path string) {
	s.requireNotFrozen("SetEndpoint")
	s.configLock.Lock()
	s.endpoint = strings.TrimSpace(path)
	s.configLock.Unlock()
}

func (s *Server) AddHeader(key, value string) {
	s.requireNotFrozen("AddHeader")
	if strings.TrimSpace(key) == "" {
		return
	}
	s.configLock.Lock()
	s.headers[key] = value
	s.configLock.Unlock()
}

func (s *Server) SetAllowedOrigins(origins ...string) {
	s.requireNotFrozen("SetAllowedOrigins")
	s.configLock.Lock()
	s.allowedOrigins = trimStrings(origins)
	s.configLock.Unlock()
}

func (s *Server) SetReadLimit(limit int64) {
	s.requireNotFrozen("SetReadLimit")
	s.configLock.Lock()
	if limit > 0 {
		s.readLimit = limit
	}
	s.configLock.Unlock()
}

func (s *Server) SetWriteTimeout(timeout time.Duration) {
	s.requireNotFrozen("SetWriteTimeout")
	s.configLock.Lock()
	if timeout > 0 {
		s.writeTimeout = timeout
	}
	s.configLock.Unlock()
}

func (s *Server) SetIdleTimeout(timeout time.Duration) {
	s.requireNotFrozen("SetIdleTimeout")
	s.configLock.Lock()
	s.idleTimeout = timeout
	s.configLock.Unlock()
}

// SetSendBuffer sizes the per-connection control outbox.
func (s *Server) SetSendBuffer(size int) {
	s.requireNotFrozen("SetSendBuffer")
	s.configLock.Lock()
	if size > 0 {
		s.sendBuffer = size
	}
	s.configLock.Unlock()
}

// SetSampleBuffer sizes each connection's stream subscription.
func (s *Server) SetSampleBuffer(size int) {
	s.requireNotFrozen("SetSampleBuffer")
	s.configLock.Lock()
	if size > 0 {
		s.sampleBuffer = size
	}
	s.configLock.Unlock()
}

func (s *Server) SetMaxConnections(max int) {
	s.requireNotFrozen("SetMaxConnections")
	s.configLock.Lock()
	if max >= 0 {
		s.maxConnections = max
	}
	s.configLock.Unlock()
}

// SetStatusInterval enables the periodic health status broadcast. Zero disables it.
func (s *Server) SetStatusInterval(interval time.Duration) {
	s.requireNotFrozen("SetStatusInterval")
	s.configLock.Lock()
	if interval >= 0 {
		s.statusInterval = interval
	}
	s.configLock.Unlock()
}

func (s *Server) SetTLSConfig(tlsCfg types.TLSConfig) {
	s.requireNotFrozen("SetTLSConfig")
	cfg, err := buildTLSConfig(tlsCfg)
	s.configLock.Lock()
	s.tlsConfig = cfg
	s.tlsConfigErr = err
	s.configLock.Unlock()
}

func (s *Server) SetHandler(h Handler) {
	s.requireNotFrozen("SetHandler")
	s.configLock.Lock()
	if h != nil {
		s.handler = h
	}
	s.configLock.Unlock()
}

// SetHealthSource supplies the metrics payload of periodic health statuses.
func (s *Server) SetHealthSource(fn func() any) {
	s.requireNotFrozen("SetHealthSource")
	s.configLock.Lock()
	s.health = fn
	s.configLock.Unlock()
}

func (s *Server) SetMeter(m types.Meter) {
	s.requireNotFrozen("SetMeter")
	s.configLock.Lock()
	s.meter = m
	s.configLock.Unlock()
}

func trimStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
