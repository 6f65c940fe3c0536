package internallogger

import (
	"os"
	"sync"

	"github.com/joeydtaylor/synapse/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption adjusts the build settings of a ZapLoggerAdapter.
type LoggerOption func(*loggerSettings)

type loggerSettings struct {
	level       zapcore.Level
	development bool
	callerSkip  int
	fields      map[string]interface{}
}

// ZapLoggerAdapter implements types.Logger on zap. Output always goes to
// stdout; AddSink tees further outputs in at runtime.
type ZapLoggerAdapter struct {
	mu          sync.Mutex
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	encConfig   zapcore.EncoderConfig
	development bool
	callerSkip  int
	baseFields  []zap.Field
	baseCore    zapcore.Core
	sinks       map[string]sinkEntry
}

// NewLogger builds a JSON logger that stamps every line with the log schema.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	settings := loggerSettings{
		level:      zapcore.InfoLevel,
		callerSkip: 3,
		fields:     map[string]interface{}{logschema.FieldSchema: logschema.SchemaID},
	}
	for _, option := range options {
		option(&settings)
	}

	z := &ZapLoggerAdapter{
		atomicLevel: zap.NewAtomicLevelAt(settings.level),
		encConfig:   standardEncoderConfig(),
		development: settings.development,
		callerSkip:  settings.callerSkip,
		baseFields:  fieldsFromMap(settings.fields),
		sinks:       make(map[string]sinkEntry),
	}
	z.baseCore = z.newCore(zapcore.Lock(os.Stdout), z.atomicLevel)

	z.mu.Lock()
	z.rebuildLoggerLocked()
	z.mu.Unlock()
	return z
}

func (z *ZapLoggerAdapter) rebuildLoggerLocked() {
	cores := make([]zapcore.Core, 0, 1+len(z.sinks))
	cores = append(cores, z.baseCore)
	for _, entry := range z.sinks {
		cores = append(cores, entry.core)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(z.callerSkip)}
	if z.development {
		opts = append(opts, zap.Development())
	}
	z.logger = zap.New(zapcore.NewTee(cores...), opts...).With(z.baseFields...)
}
