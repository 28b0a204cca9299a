package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is a process-local session backend. State is lost on restart
// and is not shared between instances, so it is suitable for single-instance
// deployments and tests only. Expired entries are dropped on Resolve, which
// keeps expiry and revocation on one code path.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory store with the given token TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{userID: userID, expiresAt: timeNow().Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return "", common.ErrInvalidToken
	}
	if timeNow().After(entry.expiresAt) {
		delete(s.sessions, token)
		return "", common.ErrInvalidToken
	}
	return entry.userID, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
