package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pdrpinto/gridpath"
)

// session is one stepping search. Its mutex serializes Step calls.
type session struct {
	mu       sync.Mutex
	stepper  *gridpath.Stepper
	lastUsed time.Time
}

// sessionStore keeps stepping sessions and drops idle ones lazily.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessionStore) add(stepper *gridpath.Stepper) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	id := uuid.New()
	s.sessions[id] = &session{stepper: stepper, lastUsed: s.now()}
	return id
}

func (s *sessionStore) get(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

func (s *sessionStore) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
