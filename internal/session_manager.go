package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/photostore/pkg/session"
)

const defaultSessionCookieName = "session"

// SessionManager resolves the request's session cookie against a store.
// Sessions are issued by the blog's login flow; the manager only reads them.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	cookieName string
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookieName: defaultSessionCookieName,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// LoadSession loads the session named by the request cookie.
// Missing cookies and unknown or expired sessions yield nil, nil.
// Store failures are returned.
func (sm *SessionManager) LoadSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, cookie.Value)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, session.ErrInvalidToken):
		return nil, nil
	default:
		sm.logger.WarnContext(ctx, "session lookup failed", slog.Any("error", err))
		return nil, err
	}
}

// CookieName returns the name of the session cookie.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}
