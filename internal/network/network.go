// Package network provides the reachability probe and the single-shot
// document fetch used for remote catalogs and dotfiles.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
)

// UserAgent is sent with every request.
const UserAgent = "devboot"

// maxBodySize caps a fetched document.
const maxBodySize = 8 << 20

// Client wraps an http.Client with the probe and fetch timeouts.
type Client struct {
	HTTPClient   *http.Client
	ProbeTimeout time.Duration
	FetchTimeout time.Duration
}

// NewClient creates a client with the given timeouts.
func NewClient(probeTimeout, fetchTimeout time.Duration) *Client {
	return &Client{
		HTTPClient:   &http.Client{},
		ProbeTimeout: probeTimeout,
		FetchTimeout: fetchTimeout,
	}
}

// Reachable performs one GET against rawURL and reports whether it answered
// with a non-error status before ProbeTimeout. It never retries.
func (c *Client) Reachable(ctx context.Context, rawURL string) bool {
	ctx, cancel := withTimeout(ctx, c.ProbeTimeout)
	defer cancel()

	logging.Debug("checking network", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.Debug("network unreachable", "url", rawURL, "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode < http.StatusBadRequest
}

// Fetch retrieves rawURL within FetchTimeout. Transport failures are
// reported as ErrNetwork; non-200 responses as FetchFailed.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, c.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, devbooterrors.Wrap(err, devbooterrors.ErrNetwork, fmt.Sprintf("invalid URL %q", rawURL))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, devbooterrors.OperationCancelled("fetch " + rawURL)
		}
		return nil, devbooterrors.NetworkUnavailable(hostOf(rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, devbooterrors.FetchFailed(rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, devbooterrors.NetworkUnavailable(hostOf(rawURL), err)
	}

	logging.Debug("fetched remote document", "url", rawURL, "bytes", len(data))
	return data, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
