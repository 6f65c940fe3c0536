package utils

import (
	"github.com/google/uuid"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// GenerateID returns a random identifier for components, sessions, and connections.
func GenerateID() string {
	return uuid.NewString()
}

// NotifyLoggers fans a structured entry out to every logger whose level admits it.
func NotifyLoggers(loggers []types.Logger, level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}
