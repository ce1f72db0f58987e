package session

import (
	"context"
	"time"

	"github.com/dmitrymomot/photostore/pkg/cache"
)

// CachedStore serves repeated lookups of a slower Store from a cache.
//
// A session deleted directly in the backing store stays valid here for at
// most ttl.
type CachedStore struct {
	next   Store
	loader *cache.Loader[Session]
	ttl    time.Duration
}

// NewCachedStore wraps next. c holds at most ttl old copies of sessions.
func NewCachedStore(next Store, c cache.Cache[Session], ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:   next,
		loader: cache.NewLoader(c),
		ttl:    ttl,
	}
}

// entryTTL never outlives the session itself.
func (s *CachedStore) entryTTL(sess *Session) time.Duration {
	return min(s.ttl, time.Until(sess.ExpiresAt))
}

func (s *CachedStore) Create(ctx context.Context, sess *Session) error {
	if err := s.next.Create(ctx, sess); err != nil {
		return err
	}
	return s.loader.Forget(ctx, sess.Token)
}

func (s *CachedStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	sess, err := s.loader.Get(ctx, token, func(ctx context.Context) (Session, time.Duration, error) {
		found, err := s.next.Get(ctx, token)
		if err != nil {
			return Session{}, 0, err
		}
		ttl := s.entryTTL(found)
		if ttl <= 0 {
			return Session{}, 0, ErrExpired
		}
		return *found, ttl, nil
	})
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		_ = s.loader.Forget(ctx, token)
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *CachedStore) Delete(ctx context.Context, token string) error {
	if err := s.loader.Forget(ctx, token); err != nil {
		return err
	}
	return s.next.Delete(ctx, token)
}
