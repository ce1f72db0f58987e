package internal

import (
	"net/http"
	"sync"
)

// ResponseWriter records the status sent to the client so the error handler
// can tell whether a response was already started.
type ResponseWriter struct {
	http.ResponseWriter

	mu      sync.Mutex
	status  int
	written bool
}

// NewResponseWriter wraps w. The status defaults to 200.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// claim marks the header as sent and reports whether this call did it.
func (w *ResponseWriter) claim(code int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return false
	}
	w.written = true
	if code != 0 {
		w.status = code
	}
	return true
}

// WriteHeader sends the status code once; later calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.claim(code) {
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.claim(0) {
		w.ResponseWriter.WriteHeader(w.Status())
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the status code sent, or 200 if nothing was sent yet.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Written reports whether the header was sent.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
