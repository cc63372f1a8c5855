// Package memory provides in-memory implementations of outbound ports.
package memory

import "sync"

// MemoryTokenStore implements outbound.TokenStore with a mutex-guarded
// string. Thread-safe for concurrent access. For development/testing only.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// NewTokenStoreWithToken creates a store pre-seeded with a token.
func NewTokenStoreWithToken(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

// Load returns the stored token, or "" when none is stored.
func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Save replaces the stored token.
func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
