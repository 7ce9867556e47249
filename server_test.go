package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *APIServer {
	cfg := CreateConfig("srv", "localhost", "8080", 0)
	return InitServer(cfg, CreateEngine(cfg.Name, cfg))
}

func do(t *testing.T, s *APIServer, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServerReadWriteDelete(t *testing.T) {
	s := newTestServer()

	if rec := do(t, s, http.MethodPost, "/write?key=first&value=1"); rec.Code != http.StatusOK {
		t.Fatalf("write status = %d", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/read?key=first")
	if rec.Code != http.StatusOK || rec.Body.String() != "1" {
		t.Fatalf("read = %d %q", rec.Code, rec.Body.String())
	}

	if rec := do(t, s, http.MethodDelete, "/delete?key=first"); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/read?key=first")
	if rec.Code != http.StatusNotFound || rec.Body.String() != KEY_NOT_FOUND {
		t.Errorf("read after delete = %d %q", rec.Code, rec.Body.String())
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		method, target string
		want           int
	}{
		{http.MethodPut, "/write?value=1", http.StatusBadRequest},
		{http.MethodPost, "/delete", http.StatusBadRequest},
		{http.MethodGet, "/write?key=a&value=1", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := do(t, s, tt.method, tt.target); rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.target, rec.Code, tt.want)
		}
	}
}

func TestServerPairsAndStats(t *testing.T) {
	s := newTestServer()
	for i, k := range []string{"first", "second", "third", "fourth"} {
		do(t, s, http.MethodPost, fmt.Sprintf("/write?key=%s&value=%d", k, i+1))
	}

	rec := do(t, s, http.MethodGet, "/pairs")
	var pairs []Pair
	if err := json.Unmarshal(rec.Body.Bytes(), &pairs); err != nil {
		t.Fatalf("pairs body %q: %v", rec.Body.String(), err)
	}
	if len(pairs) != 4 || pairs[0] != (Pair{"first", "1"}) {
		t.Errorf("pairs = %v", pairs)
	}

	rec = do(t, s, http.MethodGet, "/stats")
	var st Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("stats body %q: %v", rec.Body.String(), err)
	}
	if st.Count != 4 || st.Capacity != 53 || st.Name != "srv" {
		t.Errorf("stats = %+v", st)
	}

	rec = do(t, s, http.MethodGet, "/digest")
	if want := fmt.Sprintf("%016x", s.engine.Digest()); rec.Body.String() != want {
		t.Errorf("digest = %q, want %q", rec.Body.String(), want)
	}
}

func TestServerMetrics(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/write?key=a&value=1")
	do(t, s, http.MethodGet, "/read?key=a")
	do(t, s, http.MethodGet, "/read?key=missing")

	body := do(t, s, http.MethodGet, "/metrics").Body.String()
	for _, want := range []string{
		`hashtable_operations_total{op="write",result="ok",table="srv"} 1`,
		`hashtable_operations_total{op="read",result="ok",table="srv"} 1`,
		`hashtable_operations_total{op="read",result="not_found",table="srv"} 1`,
		`hashtable_entries{table="srv"} 1`,
		`hashtable_capacity{table="srv"} 53`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
