// Package memory provides the in-process session store. Suitable for
// single-instance deployments; multi-instance deployments use the
// redis store instead.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/seclearn/trainquery/internal/domain"
)

// SessionStore is a mutex-guarded map of sessions with TTL expiry.
// Expiry is checked lazily on lookup; a background sweep reclaims
// memory from sessions nobody reads again.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttl      time.Duration
	done     chan struct{}
}

// NewSessionStore creates a store whose sessions expire ttl after
// their last activity. It starts a background sweep goroutine; call
// Close to stop it.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// Get returns the session, deleting it first when expired. An expired
// session is indistinguishable from a missing one.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.expired(session, time.Now()) {
		delete(s.sessions, id)
		return nil, domain.ErrNotFound
	}
	cp := *session
	return &cp, nil
}

// Update applies mutate to the session and refreshes its last-activity
// timestamp, extending the TTL.
func (s *SessionStore) Update(_ context.Context, id string, mutate func(*domain.Session)) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || s.expired(session, time.Now()) {
		delete(s.sessions, id)
		return nil, domain.ErrNotFound
	}
	mutate(session)
	session.LastActivity = time.Now().UTC()
	cp := *session
	return &cp, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of tracked sessions, expired ones included
// until the next sweep.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background sweep goroutine.
func (s *SessionStore) Close() {
	close(s.done)
}

func (s *SessionStore) expired(session *domain.Session, now time.Time) bool {
	return now.Sub(session.LastActivity) > s.ttl
}

// sweep runs periodically and removes expired sessions.
func (s *SessionStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, session := range s.sessions {
				if s.expired(session, now) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
