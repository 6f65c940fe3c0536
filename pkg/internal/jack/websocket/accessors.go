package websocket

import "github.com/joeydtaylor/synapse/pkg/internal/types"

// GetComponentMetadata returns component metadata (ID, Name, Type).
func (s *Server) GetComponentMetadata() types.ComponentMetadata {
	return s.componentMetadata
}

// SetComponentMetadata sets Name and ID for the component.
func (s *Server) SetComponentMetadata(name string, id string) {
	s.requireNotFrozen("SetComponentMetadata")
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
}

// ConnectionCount reports the number of live consumers.
func (s *Server) ConnectionCount() int {
	return s.connectionCount()
}
