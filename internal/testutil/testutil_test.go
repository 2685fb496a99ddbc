package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolPtr(t *testing.T) {
	p := BoolPtr(true)
	require.NotNil(t, p)
	assert.True(t, *p)
	assert.NotSame(t, p, BoolPtr(true))
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	assert.Equal(t, path, WriteFile(t, path, "hello"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestManifestJSON(t *testing.T) {
	body := ManifestJSON(t, ManifestEntry{Version: "4.1.0", URL: "https://x/nuget.exe", Stage: "Released"})

	var decoded map[string][]map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, []map[string]string{{"version": "4.1.0", "url": "https://x/nuget.exe", "stage": "Released"}}, decoded["nuget.exe"])

	assert.JSONEq(t, `{"nuget.exe":[]}`, ManifestJSON(t))
}

func TestServerCountsHits(t *testing.T) {
	srv := NewServer(t, ServeBody("payload"))

	for range 2 {
		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, "payload", string(data))
	}
	assert.Equal(t, 2, srv.Hits())
}

func TestServeStatus(t *testing.T) {
	srv := NewServer(t, ServeStatus(http.StatusBadGateway))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestSeedCacheEntry(t *testing.T) {
	root := t.TempDir()
	dir := SeedCacheEntry(t, root, "NuGet", "4.1.0", "x64", "nuget.exe", "exe")

	assert.Equal(t, filepath.Join(root, "NuGet", "4.1.0", "x64"), dir)
	assert.FileExists(t, filepath.Join(dir, "nuget.exe"))
	assert.FileExists(t, dir+".complete")
}
