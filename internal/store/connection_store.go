package store

import (
	"sync"

	"ciphera/internal/domain"
)

// ConnectionMemoryStore maps each identity to one live channel.
// A later Register for the same identity silently replaces the earlier channel.
type ConnectionMemoryStore struct {
	mu       sync.RWMutex
	channels map[domain.Identity]domain.Channel
}

// NewConnectionMemoryStore returns an empty ConnectionMemoryStore.
func NewConnectionMemoryStore() *ConnectionMemoryStore {
	return &ConnectionMemoryStore{channels: make(map[domain.Identity]domain.Channel)}
}

// Register points identity at channel. The previous channel, if any, is not told.
func (s *ConnectionMemoryStore) Register(identity domain.Identity, channel domain.Channel) {
	s.mu.Lock()
	s.channels[identity] = channel
	s.mu.Unlock()
}

// Unregister drops identity. Unknown identities are ignored.
func (s *ConnectionMemoryStore) Unregister(identity domain.Identity) {
	s.mu.Lock()
	delete(s.channels, identity)
	s.mu.Unlock()
}

// Release drops identity only if it still maps to channel, and reports whether it did.
func (s *ConnectionMemoryStore) Release(identity domain.Identity, channel domain.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.channels[identity]
	if !ok || current != channel {
		return false
	}
	delete(s.channels, identity)
	return true
}

// Lookup returns the live channel for identity, if any.
func (s *ConnectionMemoryStore) Lookup(identity domain.Identity) (domain.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[identity]
	return ch, ok
}

// Len reports how many identities are connected.
func (s *ConnectionMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// Compile-time assertion that ConnectionMemoryStore implements domain.ConnectionRegistry.
var _ domain.ConnectionRegistry = (*ConnectionMemoryStore)(nil)
