package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is an in-memory session store. Sessions live for a fixed TTL
// from creation; expired entries are dropped on read.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores a new session and returns its token.
func (s *Store) Create(session Session) string {
	token := uuid.NewString()
	session.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
	return token
}

// Get retrieves a live session by token.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if s.now().Sub(session.CreatedAt) > s.ttl {
		delete(s.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Count reports live sessions, pruning expired ones as it goes.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, session := range s.sessions {
		if now.Sub(session.CreatedAt) > s.ttl {
			delete(s.sessions, token)
		}
	}
	return len(s.sessions)
}
