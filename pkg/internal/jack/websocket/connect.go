package websocket

import "github.com/joeydtaylor/synapse/pkg/internal/types"

func (s *Server) ConnectLogger(loggers ...types.Logger) {
	s.requireNotFrozen("ConnectLogger")
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	s.loggers = append(s.loggers, loggers...)
}
