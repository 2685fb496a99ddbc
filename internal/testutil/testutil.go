// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path string, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ManifestEntry is one element of the "nuget.exe" manifest array.
type ManifestEntry struct {
	Version string `json:"version"`
	URL     string `json:"url"`
	Stage   string `json:"stage"`
}

// ManifestJSON renders entries as a distribution manifest document.
func ManifestJSON(t *testing.T, entries ...ManifestEntry) string {
	t.Helper()
	if entries == nil {
		entries = []ManifestEntry{}
	}
	data, err := json.Marshal(map[string][]ManifestEntry{"nuget.exe": entries})
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	return string(data)
}

// Server is an httptest server that counts requests.
type Server struct {
	*httptest.Server
	hits atomic.Int32
}

// Hits returns the number of requests served.
func (s *Server) Hits() int {
	return int(s.hits.Load())
}

// NewServer serves handler and counts every request. It closes on cleanup.
func NewServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// ServeBody returns a handler that always answers 200 with body.
func ServeBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

// ServeStatus returns a handler that always answers with code.
func ServeStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

// SeedCacheEntry writes a complete tool cache entry holding filename and
// returns the entry directory.
func SeedCacheEntry(t *testing.T, root, tool, version, arch, filename, content string) string {
	t.Helper()
	dir := filepath.Join(root, tool, version, arch)
	WriteFile(t, filepath.Join(dir, filename), content)
	WriteFile(t, dir+".complete", "")
	return dir
}
