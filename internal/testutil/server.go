package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

// Capture is one request recorded by the mock server.
type Capture struct {
	Method    string
	Path      string
	Query     url.Values
	Headers   http.Header
	Body      []byte
	Timestamp time.Time
}

// MockErgastServer is a mock Ergast-compatible API server for testing.
type MockErgastServer struct {
	*httptest.Server
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	captures []Capture
}

// NewMockServer creates a mock API server. The server is automatically
// closed when the test completes.
func NewMockServer(t *testing.T) *MockErgastServer {
	t.Helper()

	m := &MockErgastServer{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
	}

	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockErgastServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	m.mu.Lock()
	m.captures = append(m.captures, Capture{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		Headers:   r.Header.Clone(),
		Body:      body,
		Timestamp: time.Now(),
	})

	key := r.Method + ":" + r.URL.Path
	handler, exists := m.handlers[key]
	m.mu.Unlock()

	if exists {
		handler(w, r)
		return
	}

	ReplyEmpty(w)
}

// OnMethod registers a handler for a specific HTTP method and path.
func (m *MockErgastServer) OnMethod(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+":"+path] = handler
}

// On registers a handler for a GET request (most common case).
func (m *MockErgastServer) On(path string, handler http.HandlerFunc) {
	m.OnMethod("GET", path, handler)
}

// Captures returns all captured requests.
func (m *MockErgastServer) Captures() []Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Capture{}, m.captures...)
}

// LastCapture returns the most recent captured request, or nil.
func (m *MockErgastServer) LastCapture() *Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.captures) == 0 {
		return nil
	}
	return &m.captures[len(m.captures)-1]
}

// CaptureCount returns the total number of captured requests.
func (m *MockErgastServer) CaptureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.captures)
}

// ResetCaptures clears captures, keeping handlers.
func (m *MockErgastServer) ResetCaptures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captures = m.captures[:0]
}

// TimeBetweenCaptures returns the duration between two captures. Useful for
// rate-limit timing assertions.
func (m *MockErgastServer) TimeBetweenCaptures(i, j int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || j < 0 || i >= len(m.captures) || j >= len(m.captures) {
		return 0
	}
	return m.captures[j].Timestamp.Sub(m.captures[i].Timestamp)
}
