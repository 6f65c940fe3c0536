// Package acquisition runs the device read path: source bytes are decoded into
// frames, scaled, stamped and published. The loop never touches the network and
// never waits on a consumer.
package acquisition

import (
	"sync"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/framing"
	"github.com/joeydtaylor/synapse/pkg/internal/scaler"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

const (
	DefaultInitialBackoff = 250 * time.Millisecond
	DefaultMaxBackoff     = 5 * time.Second
	DefaultReadSize       = 4096
)

// StatusFunc is told about device link changes.
type StatusFunc func(device string, connected bool, message string)

// Loop owns one source and the decoder state for it.
type Loop struct {
	componentMetadata types.ComponentMetadata

	source    types.Source
	publisher types.Publisher
	scaler    scaler.Scaler
	decoder   *framing.Decoder
	clock     func() time.Time
	status    StatusFunc
	meter     types.Meter

	initialBackoff time.Duration
	maxBackoff     time.Duration
	readSize       int
	stopOnEOF      bool

	lastSeq     uint8
	haveSeq     bool
	lastSkipped uint64

	loggers     []types.Logger
	loggersLock sync.Mutex
}

func NewLoop(source types.Source, publisher types.Publisher, options ...types.Option[*Loop]) *Loop {
	l := &Loop{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "ACQUISITION",
			Name: source.Name(),
		},
		source:         source,
		publisher:      publisher,
		scaler:         scaler.Default(),
		decoder:        framing.NewDecoder(),
		clock:          time.Now,
		status:         func(string, bool, string) {},
		initialBackoff: DefaultInitialBackoff,
		maxBackoff:     DefaultMaxBackoff,
		readSize:       DefaultReadSize,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *Loop) GetComponentMetadata() types.ComponentMetadata {
	return l.componentMetadata
}

func (l *Loop) ConnectLogger(loggers ...types.Logger) {
	l.loggersLock.Lock()
	defer l.loggersLock.Unlock()
	l.loggers = append(l.loggers, loggers...)
}

func (l *Loop) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	l.loggersLock.Lock()
	loggers := append([]types.Logger(nil), l.loggers...)
	l.loggersLock.Unlock()
	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

func (l *Loop) count(name string, delta uint64) {
	if l.meter != nil && delta > 0 {
		l.meter.AddCount(name, delta)
	}
}
