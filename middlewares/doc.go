// Package middlewares provides the request middleware of the photostore
// server.
//
// RequestID tags each request with an id taken from X-Request-ID or freshly
// generated, and RequestIDExtractor adds it to every log record.
//
// Recover turns handler panics into *PanicError, and Timeout bounds handler
// run time with *TimeoutError. The default error handler renders both as a
// plain 500.
//
// BearerAuth verifies HS256 tokens signed with AUTH_SECRET and marks the
// request as authenticated by the token subject. It never rejects a request
// itself; RequireAuth does that for routes that need a user:
//
//	app := photostore.New(
//	    photostore.WithLogger(log),
//	    photostore.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.BearerAuth(cfg.Auth.Secret),
//	    ),
//	)
//
// Requests without a valid token may still be authenticated by the session
// cookie; see Context.UserID.
package middlewares
