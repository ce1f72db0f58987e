// Package photostore is the HTTP application layer of the photo blog's
// object storage service.
//
// It keeps the server thin: handlers declare routes, middleware adds
// cross-cutting concerns, and the storage abstraction in pkg/storage does
// the provider work for Cloudflare R2, AWS S3, Aliyun OSS and Vercel Blob.
//
// # Quick Start
//
//	svc := storage.New(cfg.Storage(), storage.WithLogger(log))
//
//	app := photostore.New(
//	    photostore.WithLogger(log),
//	    photostore.WithStorage(svc),
//	    photostore.WithSession(session.NewMemoryStore()),
//	    photostore.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.BearerAuth(cfg.Auth.Secret),
//	    ),
//	    photostore.WithHandlers(handlers.NewStorage()),
//	    photostore.WithHealthChecks(
//	        photostore.WithReadinessCheck("storage", health.Optional(storage.Healthcheck(svc))),
//	    ),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler]:
//
//	func (h *Storage) Routes(r photostore.Router) {
//	    r.GET("/api/storage/config", h.config)
//	}
//
// # Authentication
//
// A request is authenticated when its session cookie names a session with a
// user, or when middlewares.BearerAuth accepted its token. Context.UserID
// returns the user id in both cases.
//
// # Errors
//
// Handlers return errors. [HTTPError] values are written as plain text with
// their status; anything else becomes a generic 500 and is logged.
package photostore
