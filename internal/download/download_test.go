package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDownloader(t *testing.T, opts Options) *Downloader {
	t.Helper()
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	if opts.RetryWait == 0 {
		opts.RetryWait = time.Millisecond
	}
	return New(opts)
}

func TestDownload_WritesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("nuget-binary"))
	}))
	defer server.Close()

	d := newTestDownloader(t, Options{})
	path, err := d.Download(context.Background(), server.URL+"/nuget.exe")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nuget-binary", string(data))
	assert.Equal(t, d.dir, filepath.Dir(path))
}

func TestDownload_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	d := newTestDownloader(t, Options{Retries: 1})
	path, err := d.Download(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestDownload_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := newTestDownloader(t, Options{Retries: 3})
	_, err := d.Download(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDownload_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	d := newTestDownloader(t, Options{Retries: 2})
	_, err := d.Download(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDownload_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 32)))
	}))
	defer server.Close()

	dir := t.TempDir()
	d := newTestDownloader(t, Options{Dir: dir, MaxBytes: 8})
	_, err := d.Download(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response too large")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial download should be removed")
}

func TestDownload_EmptyURL(t *testing.T) {
	d := newTestDownloader(t, Options{})
	_, err := d.Download(context.Background(), " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download url is required")
}

func TestDownload_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	d := newTestDownloader(t, Options{Timeout: 50 * time.Millisecond, Retries: -1})
	_, err := d.Download(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timed out")
}

func TestNew_Defaults(t *testing.T) {
	d := New(Options{})
	assert.Equal(t, DefaultMaxBytes, d.maxBytes)
	assert.Equal(t, DefaultTimeout, d.client.HTTPClient.Timeout)
	assert.Equal(t, 0, d.client.RetryMax)
	assert.Equal(t, filepath.Join(os.TempDir(), "nugettool-downloads"), d.dir)
}
