package websocket

import (
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// NotifyLoggers logs a formatted message to all attached loggers.
func (s *Server) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	utils.NotifyLoggers(s.snapshotLoggers(), level, msg, keysAndValues...)
}

func (s *Server) snapshotLoggers() []types.Logger {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()

	if len(s.loggers) == 0 {
		return nil
	}

	loggers := make([]types.Logger, len(s.loggers))
	copy(loggers, s.loggers)
	return loggers
}
