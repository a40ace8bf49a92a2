package dashboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session registry defaults.
const (
	DefaultSessionIdle = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Session holds one user's current selection. It is not safe for concurrent
// use on its own; Sessions serializes access.
type Session struct {
	ID        string    `json:"id"`
	Selection Selection `json:"selection"`

	lastSeen time.Time
}

// Apply normalizes sel and makes it current. On error the prior selection is
// kept and returned unchanged.
func (s *Session) Apply(b *Base, sel Selection) (Selection, error) {
	n, err := b.Normalize(sel)
	if err != nil {
		return s.Selection, err
	}
	s.Selection = n
	return n, nil
}

// SessionLimits bounds the registry. Zero values pick the defaults.
type SessionLimits struct {
	MaxIdle time.Duration // sessions untouched for longer are dropped
	Max     int           // at capacity the least recently used session is evicted
}

// Sessions is a registry of sessions keyed by id.
type Sessions struct {
	mu     sync.Mutex
	base   *Base
	limits SessionLimits
	now    func() time.Time
	m      map[string]*Session
}

// NewSessions returns an empty registry bound to base with default limits.
func NewSessions(base *Base) *Sessions {
	return NewSessionsWithLimits(base, SessionLimits{})
}

// NewSessionsWithLimits returns an empty registry bound to base.
func NewSessionsWithLimits(base *Base, l SessionLimits) *Sessions {
	if l.MaxIdle <= 0 {
		l.MaxIdle = DefaultSessionIdle
	}
	if l.Max <= 0 {
		l.Max = DefaultMaxSessions
	}
	return &Sessions{base: base, limits: l, now: time.Now, m: make(map[string]*Session)}
}

// Create starts a session at the default selection. Idle sessions are swept
// first; if the registry is still full the least recently used one goes.
func (ss *Sessions) Create() Session {
	sel, _ := ss.base.DefaultSelection()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	ss.sweepLocked(now)
	if len(ss.m) >= ss.limits.Max {
		ss.evictOldestLocked()
	}
	s := &Session{ID: uuid.NewString(), Selection: sel, lastSeen: now}
	ss.m[s.ID] = s
	return *s
}

// lookupLocked returns the live session with id, dropping it if it idled out.
func (ss *Sessions) lookupLocked(id string) (*Session, bool) {
	s, ok := ss.m[id]
	if !ok {
		return nil, false
	}
	now := ss.now()
	if now.Sub(s.lastSeen) > ss.limits.MaxIdle {
		delete(ss.m, id)
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

func (ss *Sessions) sweepLocked(now time.Time) {
	for id, s := range ss.m {
		if now.Sub(s.lastSeen) > ss.limits.MaxIdle {
			delete(ss.m, id)
		}
	}
}

func (ss *Sessions) evictOldestLocked() {
	var oldest *Session
	for _, s := range ss.m {
		if oldest == nil || s.lastSeen.Before(oldest.lastSeen) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(ss.m, oldest.ID)
	}
}

// Get returns a copy of the session with id.
func (ss *Sessions) Get(id string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.lookupLocked(id)
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Update applies sel to the session with id and returns the resulting
// session. An invalid selection leaves the session untouched.
func (ss *Sessions) Update(id string, sel Selection) (Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.lookupLocked(id)
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	_, err := s.Apply(ss.base, sel)
	return *s, err
}

// Delete removes the session with id.
func (ss *Sessions) Delete(id string) {
	ss.mu.Lock()
	delete(ss.m, id)
	ss.mu.Unlock()
}

// Len returns the number of registered sessions, including any not yet swept.
func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.m)
}
