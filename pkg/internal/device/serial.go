package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// SerialSource opens the board's USB serial port at 8N1.
type SerialSource struct {
	componentMetadata types.ComponentMetadata

	port         string
	baud         uint
	interChar    time.Duration
	initCommands []string
	initDelay    time.Duration
	open         func(serial.OpenOptions) (io.ReadWriteCloser, error)

	loggers     []types.Logger
	loggersLock sync.Mutex
}

func NewSerialSource(port string, options ...types.Option[*SerialSource]) *SerialSource {
	s := &SerialSource{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "SERIAL_SOURCE",
			Name: port,
		},
		port:         port,
		baud:         DefaultBaudRate,
		interChar:    100 * time.Millisecond,
		initCommands: DefaultInitCommands,
		initDelay:    DefaultInitDelay,
		open:         serial.Open,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *SerialSource) Name() string { return "serial:" + s.port }

func (s *SerialSource) options() serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              s.port,
		BaudRate:              s.baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: uint(s.interChar / time.Millisecond),
		MinimumReadSize:       1,
	}
}

// Open opens the port and sends the start-up command sequence.
func (s *SerialSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.port == "" {
		return nil, ErrNoPort
	}
	port, err := s.open(s.options())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.port, err)
	}

	for _, cmd := range s.initCommands {
		if _, err := port.Write([]byte(cmd)); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("write init command %q: %w", cmd, err)
		}
		s.NotifyLoggers(types.DebugLevel, "Init command sent",
			"component", s.componentMetadata,
			"event", "InitCommand",
			"result", "SUCCESS",
			"command", cmd,
		)
		if err := sleepCtx(ctx, s.initDelay); err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	s.NotifyLoggers(types.InfoLevel, "Serial port open",
		"component", s.componentMetadata,
		"event", "Open",
		"result", "SUCCESS",
		"device", s.port,
		"baud", s.baud,
	)
	return port, nil
}

func (s *SerialSource) ConnectLogger(loggers ...types.Logger) {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	s.loggers = append(s.loggers, loggers...)
}

func (s *SerialSource) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	s.loggersLock.Lock()
	loggers := append([]types.Logger(nil), s.loggers...)
	s.loggersLock.Unlock()
	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

func WithBaudRate(baud uint) types.Option[*SerialSource] {
	return func(s *SerialSource) {
		if baud > 0 {
			s.baud = baud
		}
	}
}

// WithInitCommands replaces the start-up sequence. An empty list sends nothing.
func WithInitCommands(cmds ...string) types.Option[*SerialSource] {
	return func(s *SerialSource) { s.initCommands = cmds }
}

func WithInitDelay(d time.Duration) types.Option[*SerialSource] {
	return func(s *SerialSource) { s.initDelay = d }
}

// WithInterCharacterTimeout is rounded down to the 100 ms granularity of termios.
func WithInterCharacterTimeout(d time.Duration) types.Option[*SerialSource] {
	return func(s *SerialSource) {
		s.interChar = d.Truncate(100 * time.Millisecond)
	}
}

func WithSerialLogger(loggers ...types.Logger) types.Option[*SerialSource] {
	return func(s *SerialSource) { s.ConnectLogger(loggers...) }
}
