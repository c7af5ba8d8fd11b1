package store

import (
	"sync"

	"ciphera/internal/domain"
)

// BundleMemoryStore keeps the last UserInfo each identity published.
// Records live for the process lifetime or until overwritten.
type BundleMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Identity]domain.UserInfo
}

// NewBundleMemoryStore returns an empty BundleMemoryStore.
func NewBundleMemoryStore() *BundleMemoryStore {
	return &BundleMemoryStore{records: make(map[domain.Identity]domain.UserInfo)}
}

// Put replaces whatever identity published before. Nothing is merged.
func (s *BundleMemoryStore) Put(identity domain.Identity, info domain.UserInfo) {
	s.mu.Lock()
	s.records[identity] = info.Clone()
	s.mu.Unlock()
}

// Get returns the record for identity and whether one exists.
func (s *BundleMemoryStore) Get(identity domain.Identity) (domain.UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.records[identity]
	if !ok {
		return domain.UserInfo{}, false
	}
	return info.Clone(), true
}

// Consume returns the record like Get, then drops its pre-key so the next
// fetch gets the bundle without one until the owner publishes again. A record
// whose published bytes cannot be rewritten keeps its pre-key.
func (s *BundleMemoryStore) Consume(identity domain.Identity) (domain.UserInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.records[identity]
	if !ok {
		return domain.UserInfo{}, false
	}
	out := info.Clone()
	if cleared, err := info.WithoutPreKey(); err == nil {
		s.records[identity] = cleared
	}
	return out, true
}

// Compile-time assertion that BundleMemoryStore implements domain.KeyBundleStore.
var _ domain.KeyBundleStore = (*BundleMemoryStore)(nil)
