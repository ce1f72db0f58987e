package internal

// Handler declares routes on a router.
//
// Example:
//
//	type StorageHandler struct {
//	    svc *storage.Service
//	}
//
//	func (h *StorageHandler) Routes(r photostore.Router) {
//	    r.GET("/api/storage/config", h.config)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func RequireAuth(next photostore.HandlerFunc) photostore.HandlerFunc {
//	    return func(c photostore.Context) error {
//	        if !c.IsAuthenticated() {
//	            return photostore.ErrUnauthorized("Unauthorized request")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
