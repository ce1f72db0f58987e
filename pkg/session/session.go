// Package session reads the admin sessions that gate presigned uploads.
//
// Sessions are created by the login flow of the blog and stored under their
// cookie token. This service only looks them up; Create exists so tests and
// the CLI can seed a store.
package session

import (
	"context"
	"time"
)

// Session is an authenticated or anonymous browser session.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id,omitempty"` // empty = anonymous
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session for userID that expires after ttl.
func New(id, token, userID string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsAuthenticated returns true if the session has an associated user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store persists sessions keyed by token.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist and ErrExpired if it has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by its token.
	Delete(ctx context.Context, token string) error
}
