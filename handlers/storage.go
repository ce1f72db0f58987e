// Package handlers holds the HTTP handlers of the photostore server.
package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/photostore"
	"github.com/dmitrymomot/photostore/middlewares"
)

const presignPath = "/api/storage/presigned-url"

// Storage serves presigned uploads and the public storage configuration.
type Storage struct{}

// NewStorage creates the storage handler. The storage service comes from
// the app, see photostore.WithStorage.
func NewStorage() *Storage {
	return &Storage{}
}

// Routes declares the storage endpoints.
func (h *Storage) Routes(r photostore.Router) {
	// chi does not match an empty {key}, so the bare paths are registered
	// to answer 401 instead of 404.
	r.GET(presignPath, h.presign)
	r.GET(presignPath+"/", h.presign)
	r.GET(presignPath+"/{key}", h.presign)
	r.GET("/api/storage/config", h.config)
}

// presign issues a one hour upload URL for the key on the active provider.
func (h *Storage) presign(c photostore.Context) error {
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil {
		key = ""
	}
	if !c.IsAuthenticated() || key == "" {
		return photostore.ErrUnauthorized(middlewares.UnauthorizedMessage)
	}

	svc, err := c.Storage()
	if err != nil {
		return photostore.ErrInternal(err)
	}

	signed, err := svc.Presign(middlewares.GetTimeoutContext(c), key)
	if err != nil {
		return photostore.ErrInternal(fmt.Errorf("presign %s: %w", key, err))
	}

	return c.String(http.StatusOK, signed.URL)
}

// config returns the client-safe view of the storage configuration.
func (h *Storage) config(c photostore.Context) error {
	svc, err := c.Storage()
	if err != nil {
		return photostore.ErrInternal(err)
	}
	return c.JSON(http.StatusOK, svc.PublicConfig())
}
