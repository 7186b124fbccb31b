package session

import (
	"context"
	"sync"
	"time"
)

// Store persists sessions keyed by user id. Get returns (nil, nil) when the
// user has no session; callers create one on demand.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStore keeps sessions in a process-local map. It is the default
// backend; sessions are lost on restart, which matches their transient role.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns the stored session or nil.
func (s *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *sess
	copied.Cart = append([]CartLine(nil), sess.Cart...)
	return &copied, nil
}

// Put stores the session, stamping UpdatedAt.
func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	copied.Cart = append([]CartLine(nil), sess.Cart...)
	copied.UpdatedAt = time.Now().UTC()
	s.sessions[sess.UserID] = &copied
	return nil
}

// Delete removes the user's session.
func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
