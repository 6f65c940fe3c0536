package analysis

import (
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// NotifyLoggers logs a structured message to all attached loggers.
func (e *Engine) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	e.loggersLock.Lock()
	loggers := make([]types.Logger, len(e.loggers))
	copy(loggers, e.loggers)
	e.loggersLock.Unlock()

	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

// GetComponentMetadata returns the engine metadata.
func (e *Engine) GetComponentMetadata() types.ComponentMetadata {
	return e.componentMetadata
}
