package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/photostore/internal"
)

func TestExtractor(t *testing.T) {
	t.Parallel()

	ext := internal.NewExtractor(
		internal.FromBearerToken(),
		internal.FromCookie("session"),
		internal.FromHeader("X-Token"),
		internal.FromQuery("token"),
	)

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
		found bool
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc", true},
		{"bearer lower case", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc", true},
		{"basic is ignored", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "", false},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer  ") }, "", false},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session", Value: "c1"}) }, "c1", true},
		{"header", func(r *http.Request) { r.Header.Set("X-Token", "h1") }, "h1", true},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=q1" }, "q1", true},
		{"bearer wins over cookie", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer first")
			r.AddCookie(&http.Cookie{Name: "session", Value: "second"})
		}, "first", true},
		{"nothing", func(*http.Request) {}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				got   string
				found bool
			)
			app := internal.New(internal.WithHandlers(routesFunc(func(r internal.Router) {
				r.GET("/", func(c internal.Context) error {
					got, found = ext.Extract(c)
					return c.NoContent(http.StatusOK)
				})
			})))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			serve(app, req)

			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}
