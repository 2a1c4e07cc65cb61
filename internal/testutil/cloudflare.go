package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply is a canned Cloudflare response.
type Reply struct {
	Status int
	Body   string
}

// CloudflareStub serves canned replies keyed by "METHOD /path" and records every call.
type CloudflareStub struct {
	URL string

	mu      sync.Mutex
	replies map[string]Reply
	calls   []string
}

// StartCloudflareStub starts an HTTP server standing in for the Cloudflare v4 API.
// Unknown routes answer 404 with a v4 error envelope.
func StartCloudflareStub(t *testing.T, replies map[string]Reply) *CloudflareStub {
	t.Helper()

	stub := &CloudflareStub{replies: replies}
	srv := httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(srv.Close)
	stub.URL = srv.URL
	return stub
}

func (s *CloudflareStub) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	s.mu.Lock()
	s.calls = append(s.calls, key)
	reply, ok := s.replies[key]
	s.mu.Unlock()

	if !ok {
		reply = Reply{Status: http.StatusNotFound, Body: `{"success":false,"errors":[{"code":7003,"message":"Could not route"}]}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}

// Calls returns the recorded "METHOD /path" keys in order.
func (s *CloudflareStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Count returns how many times key was requested.
func (s *CloudflareStub) Count(key string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == key {
			n++
		}
	}
	return n
}
