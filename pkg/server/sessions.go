package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/saturn/pkg/cql/versions"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionLimit is returned when the store is full.
	ErrSessionLimit = errors.New("session limit reached")
)

// Session is one open editor. Its manager holds the editor's grammar
// version.
type Session struct {
	ID      string
	Manager *versions.Manager
	Created time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

// LastUsed returns when the session was last accessed.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// SessionStore keeps sessions in memory and drops those idle for longer
// than the TTL.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	// onChange is called with the session count after it changes
	onChange func(n int)
}

// NewSessionStore creates a store holding at most max sessions. A zero
// ttl disables expiry.
func NewSessionStore(max int, ttl time.Duration, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		max:      max,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create registers a new session around mgr.
func (st *SessionStore) Create(mgr *versions.Manager) (*Session, error) {
	now := st.now()
	sess := &Session{
		ID:       uuid.NewString(),
		Manager:  mgr,
		Created:  now,
		lastUsed: now,
	}

	st.mu.Lock()
	if st.max > 0 && len(st.sessions) >= st.max {
		st.mu.Unlock()
		return nil, ErrSessionLimit
	}
	st.sessions[sess.ID] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	st.changed(n)
	return sess, nil
}

// Get returns the session with id and marks it used. Expired sessions are
// removed and reported as not found.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := st.now()
	if st.expired(sess, now) {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes the session with id. It reports whether it existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if ok {
		st.changed(n)
	}
	return ok
}

// Len returns the number of sessions, including expired ones not yet
// swept.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	removed := 0
	for id, sess := range st.sessions {
		if st.expired(sess, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if removed > 0 {
		st.logger.Debug("expired sessions removed", "removed", removed, "remaining", n)
		st.changed(n)
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

func (st *SessionStore) expired(sess *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(sess.LastUsed()) > st.ttl
}

func (st *SessionStore) changed(n int) {
	if st.onChange != nil {
		st.onChange(n)
	}
}
