package middlewares

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/photostore/internal"
	"github.com/dmitrymomot/photostore/pkg/logger"
)

// UnauthorizedMessage is the body of every 401 response.
const UnauthorizedMessage = "Unauthorized request"

// ErrEmptySecret is returned by SignToken without a secret.
var ErrEmptySecret = errors.New("middlewares: empty token secret")

type authConfig struct {
	extractor internal.Extractor
	issuer    string
	leeway    time.Duration
}

// AuthOption configures BearerAuth.
type AuthOption func(*authConfig)

// WithAuthExtractor sets where the token is read from. Defaults to the
// Authorization bearer header.
func WithAuthExtractor(ext internal.Extractor) AuthOption {
	return func(cfg *authConfig) {
		cfg.extractor = ext
	}
}

// WithAuthIssuer requires the iss claim to equal issuer.
func WithAuthIssuer(issuer string) AuthOption {
	return func(cfg *authConfig) {
		cfg.issuer = issuer
	}
}

// WithAuthLeeway allows clock skew when checking exp and nbf.
func WithAuthLeeway(d time.Duration) AuthOption {
	return func(cfg *authConfig) {
		cfg.leeway = d
	}
}

// BearerAuth returns middleware that verifies an HS256 token signed with
// secret and stores its subject as the authenticated user id.
//
// Missing or invalid tokens leave the request anonymous; routes decide
// whether that is acceptable. An empty secret disables token checks.
func BearerAuth(secret string, opts ...AuthOption) internal.Middleware {
	cfg := &authConfig{
		extractor: internal.NewExtractor(internal.FromBearerToken()),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.leeway),
	}
	if cfg.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.issuer))
	}
	parser := jwt.NewParser(parserOpts...)
	key := []byte(secret)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c internal.Context) error {
			raw, ok := cfg.extractor.Extract(c)
			if !ok {
				return next(c)
			}

			var claims jwt.RegisteredClaims
			_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			switch {
			case err != nil:
				c.LogDebug("bearer token rejected", "error", err)
			case claims.Subject == "":
				c.LogDebug("bearer token without subject")
			default:
				c.Set(internal.UserIDKey{}, claims.Subject)
			}

			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with 401 "Unauthorized request".
func RequireAuth() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return internal.ErrUnauthorized(UnauthorizedMessage)
			}
			return next(c)
		}
	}
}

// SignToken issues an HS256 token for userID that expires after ttl.
func SignToken(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// UserIDExtractor adds "user_id" to log records of authenticated requests.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(internal.UserIDKey{}).(string); ok && v != "" {
			return slog.String("user_id", v), true
		}
		return slog.Attr{}, false
	}
}
