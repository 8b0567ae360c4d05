package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodyBytes bounds a fetched puzzle definition.
	maxBodyBytes = 1 << 20
)

var (
	// ErrNotFound is returned when the feed answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")
)

// retryAttempts and retryDelay configure [Client.Fetch]. Tests shorten the
// delay.
var (
	retryAttempts = 3
	retryDelay    = time.Second
)

// Client fetches puzzle definitions over HTTP. It applies default headers,
// maps status codes to errors, retries transient failures and caches
// bodies when a [Cache] is set.
type Client struct {
	http    *http.Client
	cache   *Cache
	headers map[string]string
}

// NewClient creates a Client. cache and headers may be nil.
func NewClient(cache *Cache, headers map[string]string) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache,
		headers: headers,
	}
}

// Fetch returns the body at url. A fresh cached body is returned without a
// request unless refresh is set; a fetched body is always cached.
func (c *Client) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if c.cache != nil && !refresh {
		var body []byte
		if ok, _ := c.cache.Get(url, &body); ok {
			return body, nil
		}
	}

	var body []byte
	err := Retry(ctx, retryAttempts, retryDelay, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		_ = c.cache.Set(url, body)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%s: body exceeds %d bytes", url, maxBodyBytes)
	}
	return body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
