package websocket

import (
	"crypto/tls"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type serverConfig struct {
	address        string
	endpoint       string
	headers        map[string]string
	allowedOrigins []string
	readLimit      int64
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	sendBuffer     int
	sampleBuffer   int
	maxConnections int
	statusInterval time.Duration
	tlsConfig      *tls.Config
	tlsConfigErr   error
	handler        Handler
	health         func() any
	meter          types.Meter
}

func (s *Server) snapshotConfig() serverConfig {
	s.configLock.Lock()
	defer s.configLock.Unlock()

	return serverConfig{
		address:        s.address,
		endpoint:       s.endpoint,
		headers:        cloneHeaderMap(s.headers),
		allowedOrigins: cloneStrings(s.allowedOrigins),
		readLimit:      s.readLimit,
		writeTimeout:   s.writeTimeout,
		idleTimeout:    s.idleTimeout,
		sendBuffer:     s.sendBuffer,
		sampleBuffer:   s.sampleBuffer,
		maxConnections: s.maxConnections,
		statusInterval: s.statusInterval,
		tlsConfig:      s.tlsConfig,
		tlsConfigErr:   s.tlsConfigErr,
		handler:        s.handler,
		health:         s.health,
		meter:          s.meter,
	}
}

func cloneHeaderMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return make(map[string]string)
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
