// Package session keeps one Add User dialog per console session.
package session

import (
	"sync"
	"time"

	"admin-console/internal/form"

	"github.com/google/uuid"
)

// Session is one console visitor.
type Session struct {
	ID     string
	Dialog *form.Dialog

	lastSeen time.Time
}

// DialogFactory builds the dialog for a new session.
type DialogFactory func(sessionID string) *form.Dialog

type Registry struct {
	newDialog DialogFactory
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(newDialog DialogFactory) *Registry {
	return &Registry{
		newDialog: newDialog,
		now:       time.Now,
		sessions:  map[string]*Session{},
	}
}

// Get returns the session for id, creating a new one under a fresh ID when
// id is empty or unknown. created reports whether a new session was made.
func (r *Registry) Get(id string) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && id != "" {
		s.lastSeen = r.now()
		return s, false
	}
	id = uuid.NewString()
	s = &Session{ID: id, Dialog: r.newDialog(id), lastSeen: r.now()}
	r.sessions[id] = s
	return s, true
}

// Sweep drops sessions idle for longer than maxIdle, except those with a
// submission in flight, and returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) && !s.Dialog.IsSubmitting() {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
