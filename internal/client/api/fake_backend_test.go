package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
)

// recorded is one request seen by the fake backend.
type recorded struct {
	Method  string
	Path    string
	RawPath string
	Query   map[string][]string
	Header  http.Header
	Body    []byte
	Params  httprouter.Params
}

type fakeBackend struct {
	t      *testing.T
	router *httprouter.Router
	srv    *httptest.Server

	mu       sync.Mutex
	requests []recorded
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{t: t, router: httprouter.New()}
	f.srv = httptest.NewServer(f.router)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeBackend) url() string { return f.srv.URL + "/api" }

// reply routes method+path (under /api) to a canned JSON answer.
func (f *fakeBackend) reply(method, path string, status int, body any) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, status, body)
	})
}

func (f *fakeBackend) handle(method, path string, h httprouter.Handle) {
	f.router.Handle(method, "/api"+path, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{
			Method:  r.Method,
			Path:    r.URL.Path,
			RawPath: r.URL.EscapedPath(),
			Query:   r.URL.Query(),
			Header:  r.Header.Clone(),
			Body:    body,
			Params:  ps,
		})
		f.mu.Unlock()
		r.Body = io.NopCloser(bytesReader(body))
		h(w, r, ps)
	})
}

func (f *fakeBackend) last() recorded {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		f.t.Fatalf("no requests recorded")
	}
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if s, ok := body.(string); ok {
		_, _ = io.WriteString(w, s)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
