// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/jspfx/internal/services"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	mu       sync.Mutex
	response *http.Response
	err      error
	calls    int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.response, m.err
}

// Calls returns how many requests went through the round tripper.
func (m *MockRoundTripper) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// QueryCall records one call made to a [StubQuerier].
type QueryCall struct {
	Kind   services.RequestKind
	Params url.Values
}

// QueryResponse is a canned answer for a [StubQuerier].
type QueryResponse struct {
	Result *services.QueryResult
	Err    error
}

// StubQuerier is a test double for [services.Querier] that replays responses in order.
//
// Once the responses run out it answers with an empty 200 body; MaxCalls > 0 fails the test when exceeded.
type StubQuerier struct {
	T         *testing.T
	Responses []QueryResponse
	MaxCalls  int
	Calls     []QueryCall
}

func (s *StubQuerier) Query(ctx context.Context, kind services.RequestKind, params url.Values) (*services.QueryResult, error) {
	s.Calls = append(s.Calls, QueryCall{Kind: kind, Params: params})
	if s.MaxCalls > 0 && len(s.Calls) > s.MaxCalls {
		s.T.Errorf("querier invoked %d times, want at most %d", len(s.Calls), s.MaxCalls)
	}

	i := len(s.Calls) - 1
	if i >= len(s.Responses) {
		return &services.QueryResult{Kind: kind, StatusCode: http.StatusOK, Body: []byte(`{}`), Attempts: 1}, nil
	}
	r := s.Responses[i]
	if r.Result != nil {
		r.Result.Kind = kind
	}
	return r.Result, r.Err
}

// JSONResult returns a 200 response with the given body.
func JSONResult(body string) QueryResponse {
	return QueryResponse{Result: &services.QueryResult{StatusCode: http.StatusOK, Body: []byte(body), Attempts: 1}}
}

// NotFoundResult returns a 404 response marked as a semantic miss.
func NotFoundResult() QueryResponse {
	return QueryResponse{Result: &services.QueryResult{StatusCode: http.StatusNotFound, Body: []byte(`{"error":"Not Found"}`), Attempts: 1, NotFound: true}}
}

// ErrorResult returns a failed query.
func ErrorResult(err error) QueryResponse {
	return QueryResponse{Err: err}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
