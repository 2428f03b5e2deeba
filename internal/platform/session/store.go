package session

import (
	"context"
	"sync"
)

// Store persists the bearer token and identity blob for each portal session.
// Both values live under the session id; implementations must serialize
// writes for a given session so partial state is never observable.
type Store interface {
	SetToken(ctx context.Context, sessionID, token string) error
	// Token returns the stored token verbatim, or "" when none is stored.
	Token(ctx context.Context, sessionID string) (string, error)
	// RemoveToken is idempotent.
	RemoveToken(ctx context.Context, sessionID string) error

	SetIdentity(ctx context.Context, sessionID string, raw []byte) error
	// Identity returns the stored identity blob, or nil when none is stored.
	Identity(ctx context.Context, sessionID string) ([]byte, error)
	// RemoveIdentity is idempotent.
	RemoveIdentity(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	token    string
	identity []byte
}

// MemoryStore is a mutex-serialized in-memory Store. It backs development
// setups without a database; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) entry(sessionID string) *memoryEntry {
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &memoryEntry{}
		s.sessions[sessionID] = e
	}
	return e
}

func (s *MemoryStore) SetToken(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(sessionID).token = token
	return nil
}

func (s *MemoryStore) Token(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[sessionID]; ok {
		return e.token, nil
	}
	return "", nil
}

func (s *MemoryStore) RemoveToken(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		e.token = ""
	}
	return nil
}

func (s *MemoryStore) SetIdentity(_ context.Context, sessionID string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.entry(sessionID).identity = cp
	return nil
}

func (s *MemoryStore) Identity(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[sessionID]; ok && e.identity != nil {
		cp := make([]byte, len(e.identity))
		copy(cp, e.identity)
		return cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) RemoveIdentity(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		e.identity = nil
	}
	return nil
}
