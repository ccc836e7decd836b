package booking

import (
	"sync"
	"time"
)

// Registry keeps open sessions by id.  Sessions older than maxAge are
// never returned and are dropped on the next Put.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	maxAge   time.Duration
	now      func() time.Time
}

// NewRegistry returns an empty registry.  A maxAge of zero keeps
// sessions until they are deleted.
func NewRegistry(maxAge time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), maxAge: maxAge, now: time.Now}
}

// Put stores s and prunes expired sessions.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, old := range r.sessions {
		if r.expired(old) {
			delete(r.sessions, id)
		}
	}
	r.sessions[s.ID] = s
}

// Get returns the session only when it belongs to owner and has not
// expired.  An expired session is removed.
func (r *Registry) Get(id, owner string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expired(s) {
		delete(r.sessions, id)
		return nil, false
	}
	if s.Owner != owner {
		return nil, false
	}
	return s, true
}

// Delete removes a session.  Unknown ids are ignored.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports how many sessions are held, expired ones included until
// they are pruned.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// caller holds r.mu
func (r *Registry) expired(s *Session) bool {
	return r.maxAge > 0 && s.CreatedAt.Before(r.now().Add(-r.maxAge))
}
