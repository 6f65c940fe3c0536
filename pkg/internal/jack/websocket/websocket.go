// Package websocket is the consumer-facing jack. Every connection gets its own
// stream subscription relayed by a dedicated writer, so a slow consumer loses
// its oldest samples without slowing the producer or its peers. Control traffic
// (status, session events, analysis replies) travels through a bounded outbox on
// the same writer.
package websocket

import (
	"crypto/tls"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
	"github.com/joeydtaylor/synapse/pkg/internal/streambus"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
	"nhooyr.io/websocket"
)

// Server streams samples and session traffic to websocket consumers.
type Server struct {
	componentMetadata types.ComponentMetadata

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

	tlsConfig    *tls.Config
	tlsConfigErr error

	bus     *streambus.Bus
	handler Handler
	health  func() any
	meter   types.Meter

	loggers     []types.Logger
	loggersLock sync.Mutex

	configLock   sync.Mutex
	configFrozen atomic.Bool

	server   *http.Server
	serverMu sync.Mutex

	conns   map[*websocket.Conn]*wsConn
	connsMu sync.Mutex

	lastDevice   *protocol.StatusMessage
	lastDeviceMu sync.Mutex
}

// NewServer constructs a jack that relays bus output to every connection.
func NewServer(bus *streambus.Bus, options ...types.Option[*Server]) *Server {
	s := &Server{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "WEBSOCKET_JACK",
		},
		address:      ":8080",
		endpoint:     "/ws",
		headers:      make(map[string]string),
		readLimit:    1 << 20,
		writeTimeout: 5 * time.Second,
		sendBuffer:   256,
		sampleBuffer: streambus.DefaultCapacity,
		bus:          bus,
		handler:      rejectAll{},
		conns:        make(map[*websocket.Conn]*wsConn),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

func (s *Server) isFrozen() bool {
	return s.configFrozen.Load()
}
