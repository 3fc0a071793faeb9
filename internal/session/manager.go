// Package session holds the process-wide authenticated session.
//
// A Manager owns zero or one session. Values are replaced as a whole and
// callers always receive deep copies, so a session handed out can never be
// changed behind the caller's back.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/me/shipdesk/pkg/model"
)

// Persister stores the session outside the process.
type Persister interface {
	LoadSession(ctx context.Context) (*model.Session, error)
	SaveSession(ctx context.Context, sess *model.Session) error
	DeleteSession(ctx context.Context) error
}

// Observer is called after every change with the new session, or nil
// after Clear.
type Observer func(*model.Session)

// Manager is the session store shared by the dashboard, the API client and
// the CLI.
type Manager struct {
	mu        sync.Mutex
	current   *model.Session
	persister Persister
	observers []observerEntry
	nextID    int
	now       func() time.Time
	logger    *slog.Logger
}

type observerEntry struct {
	id int
	fn Observer
}

// NewManager creates an empty manager backed by p. A nil p keeps the session
// in memory only.
func NewManager(p Persister, logger *slog.Logger) *Manager {
	if p == nil {
		p = NewMemoryStore()
	}
	return &Manager{
		persister: p,
		now:       time.Now,
		logger:    logger.With("component", "session"),
	}
}

// Get returns a copy of the current session.
func (m *Manager) Get() (*model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	return m.current.Clone(), true
}

// Token returns the current access token, or "" without a session.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Set replaces the session, persists it and notifies observers.
// The in-memory value is only replaced once persisting succeeded.
func (m *Manager) Set(ctx context.Context, sess *model.Session) error {
	if sess == nil {
		return m.Clear(ctx)
	}
	next := sess.Clone()

	m.mu.Lock()
	if err := m.persister.SaveSession(ctx, next); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	m.current = next
	observers := m.snapshotObservers()
	m.mu.Unlock()

	m.logger.Debug("session set", "username", next.User.Username, "permissions", next.User.Permissions.Len())
	notify(observers, next)
	return nil
}

// Clear drops the session and purges the persisted copy. The in-memory
// session is dropped even when purging fails.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	err := m.persister.DeleteSession(ctx)
	observers := m.snapshotObservers()
	m.mu.Unlock()

	m.logger.Debug("session cleared")
	notify(observers, nil)
	if err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	return nil
}

// Load restores the persisted session. A session whose token has expired is
// discarded and purged. Load notifies observers when a session is restored.
func (m *Manager) Load(ctx context.Context) error {
	sess, err := m.persister.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil
	}

	if exp, ok := TokenExpiry(sess.Token); ok && !exp.After(m.now()) {
		m.logger.Info("persisted session expired", "username", sess.User.Username, "expired_at", exp)
		if err := m.persister.DeleteSession(ctx); err != nil {
			return fmt.Errorf("purge expired session: %w", err)
		}
		return nil
	}

	m.mu.Lock()
	m.current = sess
	observers := m.snapshotObservers()
	m.mu.Unlock()

	m.logger.Info("session restored", "username", sess.User.Username)
	notify(observers, sess.Clone())
	return nil
}

// Subscribe registers fn to be called synchronously, in registration order,
// after each change. The returned function unregisters it.
func (m *Manager) Subscribe(fn Observer) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// Close releases the persister when it holds resources.
func (m *Manager) Close() error {
	if c, ok := m.persister.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// snapshotObservers must be called with mu held.
func (m *Manager) snapshotObservers() []Observer {
	out := make([]Observer, len(m.observers))
	for i, o := range m.observers {
		out[i] = o.fn
	}
	return out
}

// notify runs outside the lock so observers may call back into the manager.
func notify(observers []Observer, sess *model.Session) {
	for _, fn := range observers {
		fn(sess.Clone())
	}
}

// TokenExpiry reads the exp claim of a JWT access token without verifying
// its signature. ok is false when the token is not a JWT or has no exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false
	}
	return t.Time, true
}
