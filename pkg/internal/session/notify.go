package session

import (
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// NotifyLoggers logs a structured message to all attached loggers.
func (c *Controller) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	c.loggersLock.Lock()
	loggers := make([]types.Logger, len(c.loggers))
	copy(loggers, c.loggers)
	c.loggersLock.Unlock()

	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

// GetComponentMetadata returns the controller metadata.
func (c *Controller) GetComponentMetadata() types.ComponentMetadata {
	return c.componentMetadata
}
