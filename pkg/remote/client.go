// Package remote fetches entity payloads over plain HTTPS GET. It performs
// no caching of its own; the resolver decides what to do with the bytes.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/stratum/pkg/core"
)

const (
	// maxAttempts bounds retries for transport failures. Non-2xx statuses
	// are definitive and never retried, so a legitimate 404 is not masked.
	maxAttempts = 3

	// baseBackoff doubles on each retry: 500ms, 1s.
	baseBackoff = 500 * time.Millisecond

	// defaultTimeout is the per-attempt request timeout.
	defaultTimeout = 15 * time.Second

	// maxBodyBytes caps response reads; content payloads are small JSON.
	maxBodyBytes = 10 * 1024 * 1024
)

// Client fetches content from a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the given content base URL (no trailing slash
// required). A zero timeout selects the default.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Fetch GETs url with retry and backoff. It returns *core.NetworkError after
// transport-level retry exhaustion and core.ErrNotFound (wrapped) for any
// non-2xx status.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	// No base URL means a deliberately offline engine; miss immediately
	// instead of walking the retry loop on a request that cannot succeed.
	if c.baseURL == "" {
		return nil, fmt.Errorf("no base URL configured: %w", core.ErrNotFound)
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseBackoff << (attempt - 1)
			c.logger.Debug("retrying fetch", "url", url, "attempt", attempt+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &core.NetworkError{URL: url, Err: ctx.Err()}
			}
		}

		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		// A definitive miss is not a transport problem; surface it as-is.
		var netErr *core.NetworkError
		if !errors.As(err, &netErr) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &core.NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned HTTP %d: %w", url, resp.StatusCode, core.ErrNotFound)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &core.NetworkError{URL: url, Err: err}
	}
	return body, nil
}

// EntityURL builds the GET URL for an entity. The categories index lives at
// a fixed document; scoped entities live under their type's path.
func (c *Client) EntityURL(entityType core.EntityType, scopeID string) string {
	switch entityType {
	case core.EntityCategories:
		return c.baseURL + "/categories.json"
	default:
		return fmt.Sprintf("%s/%s/%s.json", c.baseURL, entityType, scopeID)
	}
}

// ManifestURL is the remote version manifest document.
func (c *Client) ManifestURL() string {
	return c.baseURL + "/manifest.json"
}
