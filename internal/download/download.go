// Package download fetches artifacts over HTTP into temporary files.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

const (
	// DefaultMaxBytes caps a single download.
	DefaultMaxBytes = int64(100 * 1024 * 1024) // 100 MiB
	DefaultTimeout  = 5 * time.Minute
	DefaultRetries  = 1
	userAgent       = "nuget-tool-installer"
)

// Downloader retrieves a URL into a file under its temp directory.
type Downloader struct {
	client   *retryablehttp.Client
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

// Options configures a Downloader. Zero values fall back to package defaults.
type Options struct {
	// Dir receives downloaded files; defaults to <os temp>/nugettool-downloads.
	Dir      string
	Timeout  time.Duration
	Retries  int
	MaxBytes int64
	// RetryWait bounds the backoff between attempts.
	RetryWait time.Duration
	Logger    *slog.Logger
}

// New returns a Downloader.
func New(opts Options) *Downloader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := retryablehttp.NewClient()
	client.Logger = logger
	client.RetryMax = opts.Retries
	if opts.Retries < 0 {
		client.RetryMax = 0
	}
	if opts.RetryWait > 0 {
		client.RetryWaitMin = opts.RetryWait
		client.RetryWaitMax = opts.RetryWait
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client.HTTPClient.Timeout = timeout
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	dir := opts.Dir
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "nugettool-downloads")
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Downloader{client: client, dir: dir, maxBytes: maxBytes, logger: logger}
}

// Download fetches url and returns the path of the temporary file holding the
// response body. The caller owns the file.
func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New(messages.DownloadURLRequired)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf(messages.DownloadCreateRequestFmt, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	d.logger.DebugContext(ctx, "downloading", "url", url)
	resp, err := d.client.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return "", fmt.Errorf(messages.DownloadTimeoutFmt, url)
		}
		return "", fmt.Errorf(messages.DownloadFailedFmt, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(messages.DownloadUnexpectedStatusFmt, url, resp.Status)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf(messages.DownloadCreateTempDirFmt, err)
	}
	tmp, err := os.CreateTemp(d.dir, "download-*")
	if err != nil {
		return "", fmt.Errorf(messages.DownloadCreateTempFileFmt, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		_ = tmp.Close()
		if isTimeoutError(err) {
			return "", fmt.Errorf(messages.DownloadTimeoutFmt, url)
		}
		return "", fmt.Errorf(messages.DownloadWriteTempFileFmt, err)
	}
	if n > d.maxBytes {
		_ = tmp.Close()
		return "", fmt.Errorf(messages.DownloadTooLargeFmt, url, n, d.maxBytes)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf(messages.DownloadCloseTempFileFmt, err)
	}
	committed = true
	d.logger.DebugContext(ctx, "downloaded", "url", url, "path", tmpName, "bytes", n)
	return tmpName, nil
}

// isTimeoutError reports whether err is a network timeout.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
