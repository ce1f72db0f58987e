package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/photostore/internal"
	"github.com/dmitrymomot/photostore/pkg/session"
	"github.com/dmitrymomot/photostore/pkg/storage"
)

// testContext is a minimal internal.Context for driving middleware directly.
type testContext struct {
	response http.ResponseWriter
	request  *http.Request
	logs     []string
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{response: w, request: r}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(string) string           { return "" }
func (c *testContext) Query(name string) string      { return c.request.URL.Query().Get(name) }
func (c *testContext) Header(name string) string     { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)  { c.response.Header().Set(name, value) }

func (c *testContext) Cookie(name string) (string, error) {
	ck, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return ck.Value, nil
}

func (c *testContext) UserID() string {
	v, _ := c.Get(internal.UserIDKey{}).(string)
	return v
}

func (c *testContext) IsAuthenticated() bool                 { return c.UserID() != "" }
func (c *testContext) Session() (*session.Session, error)    { return nil, session.ErrNotConfigured }
func (c *testContext) Storage() (*storage.Service, error)    { return nil, storage.ErrNotConfigured }
func (c *testContext) JSON(code int, _ any) error            { c.response.WriteHeader(code); return nil }
func (c *testContext) NoContent(code int) error              { c.response.WriteHeader(code); return nil }
func (c *testContext) Written() bool                         { return false }
func (c *testContext) Logger() *slog.Logger                  { return slog.New(slog.DiscardHandler) }
func (c *testContext) LogDebug(msg string, _ ...any)         { c.logs = append(c.logs, msg) }
func (c *testContext) LogInfo(msg string, _ ...any)          { c.logs = append(c.logs, msg) }
func (c *testContext) LogWarn(msg string, _ ...any)          { c.logs = append(c.logs, msg) }
func (c *testContext) LogError(msg string, _ ...any)         { c.logs = append(c.logs, msg) }
func (c *testContext) Deadline() (time.Time, bool)           { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}                 { return c.request.Context().Done() }
func (c *testContext) Err() error                            { return c.request.Context().Err() }
func (c *testContext) Value(key any) any                     { return c.request.Context().Value(key) }
func (c *testContext) Get(key any) any                       { return c.request.Context().Value(key) }

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	err := internal.NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}
