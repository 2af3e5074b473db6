package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/invoicebuild/invoicebuild/internal/httpclient"
)

// MockHTTPClient implements httpclient.Client with canned responses and
// records every request it receives
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   map[string]MockResponse
	requests []*httpclient.Request
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	Err        error
}

var _ httpclient.Client = (*MockHTTPClient)(nil)

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
	}
}

// RegisterResponse registers a response for requests whose method and url
// path end with route, e.g. "POST /v1/invoices"
func (m *MockHTTPClient) RegisterResponse(route string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route] = resp
}

// RegisterJSON registers a JSON body with the given status
func (m *MockHTTPClient) RegisterJSON(route string, status int, body string) {
	m.RegisterResponse(route, MockResponse{
		StatusCode: status,
		Body:       []byte(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	path := req.URL
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}

	for route, resp := range m.routes {
		method, suffix, ok := strings.Cut(route, " ")
		if !ok || method != req.Method || !strings.HasSuffix(path, suffix) {
			continue
		}
		if resp.Err != nil {
			return nil, resp.Err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, httpclient.NewError(resp.StatusCode, resp.Body)
		}
		return &httpclient.Response{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Headers:    resp.Headers,
		}, nil
	}

	return nil, httpclient.NewError(http.StatusNotFound, []byte(`{"success":false,"error":{"message":"not found"}}`))
}

// Requests returns the requests sent so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*httpclient.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request or nil
func (m *MockHTTPClient) LastRequest() *httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Clear removes all registered responses and recorded requests
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.requests = nil
}
