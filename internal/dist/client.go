package dist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

const (
	defaultTimeout   = 10 * time.Second
	userAgent        = "nuget-tool-installer"
	maxManifestBytes = int64(8 * 1024 * 1024)
)

// Client fetches the tool manifest. It performs exactly one request per Fetch and
// never retries.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the manifest location.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithHTTPClient sets the HTTP client used for the request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a Client for DefaultManifestURL unless overridden.
// The default transport honors HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:    DefaultManifestURL,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads and decodes the manifest.
// Transport failures and non-2xx responses are returned as *UnreachableError.
func (c *Client) Fetch(ctx context.Context) (Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.logger.DebugContext(ctx, "querying versions list", "url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf(messages.DistCreateRequestFmt, c.url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UnreachableError{URL: c.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UnreachableError{
			URL:  c.url,
			Code: resp.Status,
			Err:  fmt.Errorf(messages.DistUnexpectedStatusFmt, resp.Status),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, &UnreachableError{URL: c.url, Err: err}
	}
	manifest, err := decodeManifest(data, c.url)
	if err != nil {
		return nil, fmt.Errorf(messages.DistDecodeFmt, c.url, err)
	}
	c.logger.DebugContext(ctx, "fetched versions list", "url", c.url, "entries", len(manifest))
	return manifest, nil
}
